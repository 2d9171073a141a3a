package caching

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService fronts redis for the invoicing service: template bytes
// shared across render calls, and a per-key render lock so concurrent
// regenerations of the same invoice never interleave.
type CacheService interface {
	GetTemplate(ctx context.Context, name string) ([]byte, error)
	SetTemplate(ctx context.Context, name string, data []byte, ttl time.Duration) error
	InvalidateTemplate(ctx context.Context, name string) error

	// AcquireRenderLock takes the exclusive render lock for a key,
	// reporting false when another render holds it.
	AcquireRenderLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseRenderLock(ctx context.Context, key string) error

	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port the same way plain host:port is accepted
	parsedAddr := addr
	if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
		parsedAddr = hostPort
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v (caching disabled until it recovers)", err)
	}

	return &redisCacheService{client: client}
}

func templateKey(name string) string { return "template:" + name }
func lockKey(key string) string      { return "renderlock:" + key }

func (s *redisCacheService) GetTemplate(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, templateKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *redisCacheService) SetTemplate(ctx context.Context, name string, data []byte, ttl time.Duration) error {
	return s.client.Set(ctx, templateKey(name), data, ttl).Err()
}

func (s *redisCacheService) InvalidateTemplate(ctx context.Context, name string) error {
	return s.client.Del(ctx, templateKey(name)).Err()
}

func (s *redisCacheService) AcquireRenderLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, lockKey(key), "1", ttl).Result()
}

func (s *redisCacheService) ReleaseRenderLock(ctx context.Context, key string) error {
	return s.client.Del(ctx, lockKey(key)).Err()
}

func (s *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
