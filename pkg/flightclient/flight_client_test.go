package flightclient

import (
	"net/http"
	"testing"

	"flightchat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlightProvider(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    any
		wantErr string
	}{
		{name: "default is stand-in", opts: Options{}, want: &StandIn{}},
		{name: "stand-in", opts: Options{Provider: ProviderStandIn, StandInSeed: 1}, want: &StandIn{}},
		{name: "tequila", opts: Options{Provider: ProviderTequila, Tequila: TequilaConfig{APIKey: "k"}}, want: &TequilaClient{}},
		{name: "tequila without key", opts: Options{Provider: ProviderTequila}, wantErr: "requires an api key"},
		{name: "unknown", opts: Options{Provider: "amadeus"}, wantErr: "unknown provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewFlightProvider(tt.opts, http.DefaultClient, nil, &counterIDs{}, logger.NewNop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}
