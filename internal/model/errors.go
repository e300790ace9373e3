package model

import (
	"errors"
	"fmt"
	"strings"
)

// Data-unavailable causes. Wrapped by DataUnavailableError.
var (
	ErrNoData            = errors.New("no data found for symbol")
	ErrRateLimited       = errors.New("rate limit reached or symbol not found")
	ErrUnknownSymbol     = errors.New("symbol not recognized")
	ErrMissingCredential = errors.New("api key required")
)

// DataUnavailableError is returned when a provider has nothing usable.
// Error() is meant to be shown to the user as is.
type DataUnavailableError struct {
	Provider string
	Symbol   string
	Reason   string
	Err      error
}

func (e *DataUnavailableError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Symbol != "" {
		msg += " (" + e.Symbol + ")"
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Unavailable builds a DataUnavailableError around one of the sentinel causes.
func Unavailable(provider, symbol string, cause error, reason string) *DataUnavailableError {
	return &DataUnavailableError{Provider: provider, Symbol: symbol, Reason: reason, Err: cause}
}

// ValidationError is a minimum-viability rejection of a record.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// AggregateError is returned when no model could be computed.
type AggregateError struct {
	Failures []ModelFailure
}

func (e *AggregateError) Error() string {
	if len(e.Failures) == 0 {
		return "no model could be computed"
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %s", f.Model.DisplayName(), f.Reason)
	}
	return "no model could be computed: " + strings.Join(parts, "; ")
}
