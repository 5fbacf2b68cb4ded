package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	config, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", config.AppEnv)
	assert.Equal(t, "8080", config.AppPort)
	assert.Equal(t, "gpt-4o-mini", config.OpenAI.Model)
	assert.Equal(t, "standin", config.FlightProvider.Provider)
	assert.Equal(t, 5, config.FlightProvider.ResultLimit)
	assert.Equal(t, 20*time.Second, config.UpstreamTimeout)
	assert.False(t, config.CacheEnabled)
	assert.False(t, config.Observability.Enabled)
	assert.Equal(t, "flightchat", config.Observability.ServiceName)
}

func TestFromEnv_MissingValuesReportedTogether(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("FLIGHT_PROVIDER", "tequila")
	t.Setenv("TEQUILA_API_KEY", "")
	t.Setenv("FLIGHT_RESULT_LIMIT", "five")

	_, err := fromEnv()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "missing env: OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "missing env: TEQUILA_API_KEY")
	assert.Contains(t, err.Error(), "conversion failed env: FLIGHT_RESULT_LIMIT")
}

func TestFromEnv_CacheRequiresRedis(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")

	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: REDIS_HOST")
}

func TestFromEnv_UnknownProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FLIGHT_PROVIDER", "amadeus")

	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLIGHT_PROVIDER")
}
