package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightoffers/internal/models"
)

// Cache stores raw live search payloads keyed by the normalized request.
// Fallback payloads are never cached.
type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]byte, bool)
	Set(ctx context.Context, req models.SearchRequest, body []byte) error
	Close() error
}

type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
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
		TTL:      5 * time.Minute,
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
		_ = client.Close()
		return nil, err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultRedisConfig().TTL
	}

	return &RedisCache{
		client:  client,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) ([]byte, bool) {
	key := generateKey(req)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	body, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, false
	}

	return body, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, body []byte) error {
	key := generateKey(req)
	compressed := c.encoder.EncodeAll(body, nil)
	return c.client.Set(ctx, key, compressed, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	c.decoder.Close()
	_ = c.encoder.Close()
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]byte, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, body []byte) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(req models.SearchRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return "flightoffers:" + hex.EncodeToString(hash[:])
}
