package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"flightchat/cfg"
	"flightchat/internal/chat"
	"flightchat/pkg/cache"
	"flightchat/pkg/flightclient"
	"flightchat/pkg/idgen"
	"flightchat/pkg/llm"
	"flightchat/pkg/logger"

	_ "flightchat/cmd/flightchat/docs" // swagger docs

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title           Flight Chat API
// @version         1.0
// @description     Conversational flight search: structured search, suggested filters and chat follow-ups.
// @BasePath        /
// @schemes         http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	if config.Observability.Enabled {
		shutdownOtel, err := initOtel(ctx, &config.Observability, zlogger)
		if err != nil {
			log.Fatalf("failed to initialize OpenTelemetry: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
			}
		}()
	}

	// ============
	// Cache
	// ============
	var store cache.Cache = cache.NewMemoryCache()
	if config.CacheEnabled {
		redisAddr := config.RedisConfig.Host + ":" + config.RedisConfig.Port
		redis, err := cache.NewRedisCache(ctx, redisAddr, config.RedisConfig.Password)
		if err != nil {
			log.Fatal(err)
		}
		store = redis
	}

	// ============
	// IDs
	// ============
	ids, err := idgen.NewSnowflakeGenerator(config.FlightProvider.SnowflakeNode)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// External Service
	// ============
	httpClient := &http.Client{
		Timeout: config.UpstreamTimeout,
	}
	cacheTTL := time.Duration(config.CacheTTLMinutes) * time.Minute
	provider, err := flightclient.NewFlightProvider(flightclient.Options{
		Provider: config.FlightProvider.Provider,
		Tequila: flightclient.TequilaConfig{
			BaseURL:     config.FlightProvider.BaseURL,
			APIKey:      config.FlightProvider.APIKey,
			ResultLimit: config.FlightProvider.ResultLimit,
			RateLimit:   config.FlightProvider.RateLimitRPS,
			CodeTTL:     cacheTTL,
		},
		StandInSeed: config.FlightProvider.StandInSeed,
	}, httpClient, store, ids, zlogger)
	if err != nil {
		log.Fatal(err)
	}
	completer := llm.NewOpenAIClient(llm.Config{
		APIKey:  config.OpenAI.APIKey,
		BaseURL: config.OpenAI.BaseURL,
		Model:   config.OpenAI.Model,
	}, httpClient, zlogger)

	// ============
	// Internal Service
	// ============
	chatSvc := chat.NewService(completer, provider, store, ids, chat.Config{
		ResultLimit:     config.FlightProvider.ResultLimit,
		UpstreamTimeout: config.UpstreamTimeout,
		CacheTTL:        cacheTTL,
	}, zlogger)
	chatHandler := chat.NewChatHandler(chatSvc, zlogger)

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(TraceLoggerMiddleware(zlogger))

	r.GET("/health", chat.HealthHandler)
	chatHandler.RegisterRoutes(r)
	initSwagger(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlogger.Info("server listening", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	zlogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlogger.Error("server shutdown failed", logger.Err(err))
	}
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>Flight Chat API</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(http.StatusOK, html)
	})
}
