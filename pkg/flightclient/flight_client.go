package flightclient

import (
	"fmt"
	"net/http"

	"flightchat/internal/chat"
	"flightchat/pkg/cache"
	"flightchat/pkg/idgen"
	"flightchat/pkg/logger"
)

const (
	ProviderTequila = "tequila"
	ProviderStandIn = "standin"
)

type Options struct {
	// Provider selects the implementation: "tequila" or "standin".
	Provider    string
	Tequila     TequilaConfig
	StandInSeed uint64
}

// NewFlightProvider builds the configured provider. Both implementations
// satisfy chat.FlightProvider so the orchestrator cannot tell them apart.
func NewFlightProvider(opts Options, httpClient *http.Client, c cache.Cache, ids idgen.Generator, log logger.Client) (chat.FlightProvider, error) {
	switch opts.Provider {
	case ProviderTequila:
		if opts.Tequila.APIKey == "" {
			return nil, fmt.Errorf("flightclient: tequila provider requires an api key")
		}
		log.Info("using tequila flight provider", logger.Field{Key: "base_url", Value: opts.Tequila.BaseURL})
		return NewTequilaClient(httpClient, opts.Tequila, c, log), nil
	case ProviderStandIn, "":
		log.Info("using stand-in flight provider", logger.Field{Key: "seed", Value: int64(opts.StandInSeed)})
		return NewStandIn(opts.StandInSeed, ids, opts.Tequila.ResultLimit, log), nil
	default:
		return nil, fmt.Errorf("flightclient: unknown provider %q", opts.Provider)
	}
}
