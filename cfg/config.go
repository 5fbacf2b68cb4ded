package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type FlightProviderConfig struct {
	Provider      string
	APIKey        string
	BaseURL       string
	ResultLimit   int
	RateLimitRPS  float64
	StandInSeed   uint64
	SnowflakeNode int64
}

type ObservabilityConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type Config struct {
	AppEnv          string
	AppPort         string
	OpenAI          OpenAIConfig
	FlightProvider  FlightProviderConfig
	UpstreamTimeout time.Duration
	CacheEnabled    bool
	RedisConfig     RedisConfig
	CacheTTLMinutes int
	Observability   ObservabilityConfig
}

// Load reads .env (when present) and the environment. All missing or
// malformed values are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var errs []error

	appEnv := envOr("APP_ENV", "development")
	appPort := envOr("APP_PORT", "8080")

	openAIKey := mustEnv("OPENAI_API_KEY", &errs)

	provider := envOr("FLIGHT_PROVIDER", "standin")
	var tequilaKey string
	if provider == "tequila" {
		tequilaKey = mustEnv("TEQUILA_API_KEY", &errs)
	}
	resultLimit := intEnv("FLIGHT_RESULT_LIMIT", 5, &errs)
	rateLimit := floatEnv("PROVIDER_RATE_LIMIT_RPS", 5, &errs)
	standInSeed := uint64(intEnv("STANDIN_SEED", 0, &errs))
	snowflakeNode := int64(intEnv("SNOWFLAKE_NODE_ID", 1, &errs))

	upstreamTimeout := intEnv("UPSTREAM_TIMEOUT_SECONDS", 20, &errs)

	cacheEnabled := boolEnv("CACHE_ENABLED", false, &errs)
	var redisHost, redisPort string
	if cacheEnabled {
		redisHost = mustEnv("REDIS_HOST", &errs)
		redisPort = mustEnv("REDIS_PORT", &errs)
	}
	cacheTTLMinutes := intEnv("CACHE_TTL_MINUTES", 30, &errs)

	otelEnabled := boolEnv("OTEL_ENABLED", false, &errs)
	var otlpEndpoint string
	if otelEnabled {
		otlpEndpoint = mustEnv("OTEL_EXPORTER_OTLP_ENDPOINT", &errs)
	}

	if resultLimit <= 0 {
		errs = append(errs, errors.New("invalid env: FLIGHT_RESULT_LIMIT must be positive"))
	}
	if upstreamTimeout <= 0 {
		errs = append(errs, errors.New("invalid env: UPSTREAM_TIMEOUT_SECONDS must be positive"))
	}
	if provider != "tequila" && provider != "standin" {
		errs = append(errs, errors.New("invalid env: FLIGHT_PROVIDER must be tequila or standin"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		OpenAI: OpenAIConfig{
			APIKey:  openAIKey,
			Model:   envOr("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		FlightProvider: FlightProviderConfig{
			Provider:      provider,
			APIKey:        tequilaKey,
			BaseURL:       envOr("TEQUILA_BASE_URL", "https://api.tequila.kiwi.com"),
			ResultLimit:   resultLimit,
			RateLimitRPS:  rateLimit,
			StandInSeed:   standInSeed,
			SnowflakeNode: snowflakeNode,
		},
		UpstreamTimeout: time.Duration(upstreamTimeout) * time.Second,
		CacheEnabled:    cacheEnabled,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CacheTTLMinutes: cacheTTLMinutes,
		Observability: ObservabilityConfig{
			Enabled:      otelEnabled,
			OTLPEndpoint: otlpEndpoint,
			ServiceName:  envOr("OTEL_SERVICE_NAME", "flightchat"),
			Environment:  appEnv,
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return f
}

func boolEnv(key string, fallback bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return b
}
