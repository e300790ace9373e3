package collector

import (
	"context"

	"DistressSentinel/internal/model"
)

// Fetcher retrieves one raw payload per symbol from a data provider.
// Implementations own their transport concerns (timeouts, retries, rate limits)
// and report "nothing usable" as a *model.DataUnavailableError.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (model.RawPayload, error)
	Kind() model.ProviderKind
	Name() string
}
