package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"review-digest/config"
	"review-digest/models"
)

// Cache stores predicted labels by key.
type Cache interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string, ttl time.Duration) error
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings the configured Redis instance.
func NewRedisCache(cfg config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (c *RedisCache) SetMany(ctx context.Context, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for k, v := range values {
		pipe.Set(ctx, k, v, ttl)
	}
	_, err := pipe.Exec(ctx)
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedClassifier looks labels up in a cache before calling the wrapped
// classifier. Cache failures fall back to the wrapped classifier.
type CachedClassifier struct {
	inner  Classifier
	cache  Cache
	prefix string
	ttl    time.Duration
}

func NewCachedClassifier(inner Classifier, cache Cache, prefix string, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache, prefix: prefix, ttl: ttl}
}

func (c *CachedClassifier) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *CachedClassifier) Classify(ctx context.Context, texts []string) ([]string, error) {
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(t)
	}

	hits, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		config.Logger.Warnf("sentiment cache lookup failed, classifying without cache: %v", err)
		return c.inner.Classify(ctx, texts)
	}

	// 캐시에 없는 텍스트만 중복 없이 모아서 분류한다.
	var missTexts []string
	missIdx := make(map[string]int)
	for i, k := range keys {
		if _, ok := hits[k]; ok {
			continue
		}
		if _, seen := missIdx[k]; seen {
			continue
		}
		missIdx[k] = len(missTexts)
		missTexts = append(missTexts, texts[i])
	}

	fresh := make(map[string]string, len(missTexts))
	if len(missTexts) > 0 {
		labels, err := c.inner.Classify(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(labels) != len(missTexts) {
			return nil, models.ArtifactError("classifier output size mismatch",
				fmt.Errorf("got %d labels for %d texts", len(labels), len(missTexts)))
		}
		for k, pos := range missIdx {
			fresh[k] = labels[pos]
		}
		if err := c.cache.SetMany(ctx, fresh, c.ttl); err != nil {
			config.Logger.Warnf("sentiment cache store failed: %v", err)
		}
	}
	config.Logger.Debugf("sentiment cache: %d hits, %d classified", len(texts)-len(missTexts), len(missTexts))

	out := make([]string, len(texts))
	for i, k := range keys {
		if v, ok := hits[k]; ok {
			out[i] = v
		} else {
			out[i] = fresh[k]
		}
	}
	return out, nil
}
