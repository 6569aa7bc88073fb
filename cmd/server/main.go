package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/farefinder/internal/aggregator"
	"github.com/dharmasatrya/farefinder/internal/cache"
	"github.com/dharmasatrya/farefinder/internal/handler"
	"github.com/dharmasatrya/farefinder/internal/normalizer"
	"github.com/dharmasatrya/farefinder/internal/providers"
	"github.com/dharmasatrya/farefinder/internal/ratelimit"
	"github.com/dharmasatrya/farefinder/internal/refdata"
	"github.com/dharmasatrya/farefinder/pkg/currency"
)

type Config struct {
	Port           string
	FareAPIBaseURL string
	AirportsLocale string
	CacheEnabled   bool
	RedisHost      string
	RedisPort      string
	RedisTTL       time.Duration
	SearchTimeout  time.Duration
	MaxConcurrency int
	RateLimitRPS   float64
	RateLimitBurst int
	FailFast       bool
}

func main() {
	cfg := loadConfig()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	var airportCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		airportCache = redisCache
		log.Printf("Redis airport cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
	} else {
		airportCache = cache.NewNoOpCache()
		log.Println("Cache disabled")
	}
	defer airportCache.Close()

	loaderCfg := refdata.DefaultLoaderConfig()
	loaderCfg.BaseURL = cfg.FareAPIBaseURL
	loaderCfg.Locale = cfg.AirportsLocale
	index := refdata.NewLoader(loaderCfg, airportCache).Load(context.Background())

	source := providers.NewRyanairProvider(providers.RyanairConfig{BaseURL: cfg.FareAPIBaseURL})

	rateLimiter := ratelimit.NewWithDefaults()
	rateLimiter.SetLimit(source.Name(), cfg.RateLimitRPS, cfg.RateLimitBurst)

	aggConfig := aggregator.DefaultConfig()
	aggConfig.Timeout = cfg.SearchTimeout
	aggConfig.MaxConcurrency = cfg.MaxConcurrency
	aggConfig.RateLimiter = rateLimiter
	aggConfig.FailFast = cfg.FailFast

	fares := normalizer.New(currency.Default(), normalizer.DefaultLinkBase)
	agg := aggregator.NewAggregator(source, fares, aggConfig)

	searchHandler := handler.NewSearchHandler(agg, index)

	api := e.Group("/api/v1")
	api.POST("/fares/search", searchHandler.Search)
	api.GET("/airports", searchHandler.Airports)
	api.GET("/countries", searchHandler.Countries)
	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting fare finder server on port %s (%d airports)", cfg.Port, index.Len())

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		FareAPIBaseURL: getEnv("FARE_API_BASE_URL", providers.DefaultRyanairBaseURL),
		AirportsLocale: getEnv("AIRPORTS_LOCALE", "pl"),
		CacheEnabled:   getEnvBool("CACHE_ENABLED", false),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisTTL:       getEnvDuration("REDIS_TTL", 24*time.Hour),
		SearchTimeout:  getEnvDuration("SEARCH_TIMEOUT", 90*time.Second),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 5),
		FailFast:       getEnvBool("FAIL_FAST", false),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}
