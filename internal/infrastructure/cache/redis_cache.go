package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Backoffice-api/internal/application/reports"
)

var _ reports.ReportCache = (*RedisReportCache)(nil)

// RedisReportCache caché de reportes sobre Redis. Los valores se serializan como JSON.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache construye el caché con su propio cliente Redis.
func NewRedisReportCache(addr, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisReportCache{client: client}
}

// Ping verifica la conexión a Redis.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Get deserializa en dest y devuelve true si la clave existía.
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set serializa value como JSON y lo guarda con el TTL dado.
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
