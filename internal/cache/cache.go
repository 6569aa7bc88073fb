package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/farefinder/internal/models"
)

// Cache keeps the last airport list that was fetched successfully, keyed by
// the upstream locale. Fare results are never cached.
type Cache interface {
	GetAirports(ctx context.Context, locale string) ([]models.AirportRecord, bool)
	SetAirports(ctx context.Context, locale string, airports []models.AirportRecord) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      24 * time.Hour,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) GetAirports(ctx context.Context, locale string) ([]models.AirportRecord, bool) {
	data, err := c.client.Get(ctx, generateKey(locale)).Bytes()
	if err != nil {
		return nil, false
	}

	var airports []models.AirportRecord
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, false
	}

	return airports, len(airports) > 0
}

func (c *RedisCache) SetAirports(ctx context.Context, locale string, airports []models.AirportRecord) error {
	data, err := json.Marshal(airports)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, generateKey(locale), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetAirports(ctx context.Context, locale string) ([]models.AirportRecord, bool) {
	return nil, false
}

func (c *NoOpCache) SetAirports(ctx context.Context, locale string, airports []models.AirportRecord) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(locale string) string {
	return "farefinder:airports:" + strings.ToLower(locale)
}
