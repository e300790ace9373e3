// Package reference holds static market reference data: issuers that went
// bankrupt or were delisted on the Indonesia Stock Exchange, and the default
// watchlist. The data is read-only; accessors return copies.
package reference

import (
	"strings"
	"time"
)

// Company is a delisted or bankrupt issuer.
type Company struct {
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name,omitempty"`
	DelistedOn time.Time `json:"delisted_on,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Sector     string    `json:"sector,omitempty"`
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

var bankrupt = []Company{
	{Symbol: "MYRX.JK", Name: "PT Hanson International Tbk", DelistedOn: date("2020-09-15"), Reason: "Jiwasraya case", Sector: "Financial Services"},
	{Symbol: "KPAS.JK", Name: "PT Cottonindo Ariesta Tbk", DelistedOn: date("2019-03-20"), Reason: "Failed debt restructuring (PKPU)", Sector: "Textile"},
	{Symbol: "FORZ.JK", Name: "PT Forza Land Indonesia Tbk", DelistedOn: date("2021-07-10"), Reason: "Debt default", Sector: "Real Estate"},
	{Symbol: "COWL.JK", Name: "PT Cowell Development Tbk", DelistedOn: date("2021-05-25"), Reason: "Liquidity problems", Sector: "Real Estate"},
	{Symbol: "KPAL.JK", Name: "PT Steadfast Marine Tbk", DelistedOn: date("2020-11-30"), Reason: "Shipping industry slump", Sector: "Transportation"},
	{Symbol: "PRAS.JK", Name: "PT Prima Alloy Steel Universal Tbk", DelistedOn: date("2019-08-15"), Reason: "Falling demand", Sector: "Steel"},
	{Symbol: "NIPS.JK", Name: "PT Nipress Tbk", DelistedOn: date("2020-02-20"), Reason: "Operational problems", Sector: "Manufacturing"},
	{Symbol: "BEEF.JK", Name: "PT Estika Tata Tiara Tbk", DelistedOn: date("2018-12-10"), Reason: "Livestock sector slump", Sector: "Agriculture"},
	{Symbol: "MAMI.JK", Name: "PT Mas Murni Indonesia Tbk", DelistedOn: date("2019-06-05"), Reason: "Tight competition", Sector: "Jewelry"},
	{Symbol: "TOYS.JK", Name: "PT Tiga Pilar Sejahtera Food Tbk", DelistedOn: date("2019-01-15"), Reason: "Corporate problems", Sector: "Consumer Goods"},
	{Symbol: "SBAT.JK"},
	{Symbol: "WMPP.JK"},
	{Symbol: "ETWA.JK"},
	{Symbol: "HOTL.JK"},
	{Symbol: "RICY.JK"},
	{Symbol: "TDPM.JK"},
	{Symbol: "KRAH.JK"},
	{Symbol: "SRIL.JK"},
}

var watchlist = []string{
	"BBRI.JK", "BMRI.JK", "BBCA.JK", "TLKM.JK", "UNVR.JK",
	"ASII.JK", "GGRM.JK", "KLBF.JK", "ICBP.JK", "SMGR.JK",
	"INTP.JK", "JSMR.JK", "PTBA.JK", "ADRO.JK", "ITMG.JK",
}

var bankruptIndex = func() map[string]int {
	idx := make(map[string]int, len(bankrupt))
	for i, c := range bankrupt {
		idx[c.Symbol] = i
	}
	return idx
}()

// Bankrupt returns the reference list of bankrupt issuers.
func Bankrupt() []Company {
	return append([]Company(nil), bankrupt...)
}

// Watchlist returns the default list of liquid tickers.
func Watchlist() []string {
	return append([]string(nil), watchlist...)
}

// LookupBankrupt reports whether symbol is a known bankrupt issuer. The match
// ignores case, and a bare ticker matches its .JK listing.
func LookupBankrupt(symbol string) (Company, bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if i, ok := bankruptIndex[s]; ok {
		return bankrupt[i], true
	}
	if !strings.Contains(s, ".") {
		if i, ok := bankruptIndex[s+".JK"]; ok {
			return bankrupt[i], true
		}
	}
	return Company{}, false
}
