package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderdesk/backend-go/internal/config"
	"github.com/orderdesk/backend-go/internal/domain"
)

const (
	settlementKeyPrefix = "settlement:list"
	scanBatchSize       = 100
	defaultTTL          = time.Minute
)

// SettlementCache fronts the persisted settlement aggregates. Refresh
// invalidates the whole company prefix; reads fill it back in.
type SettlementCache interface {
	Get(ctx context.Context, companyID int64, start, end *time.Time) ([]domain.Settlement, bool, error)
	Set(ctx context.Context, companyID int64, start, end *time.Time, settlements []domain.Settlement) error
	Invalidate(ctx context.Context, companyID int64) error
}

type redisSettlementCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSettlementCache struct{}

func NewSettlementCache(cfg config.CacheConfig) (SettlementCache, error) {
	if !cfg.Enabled {
		return &noopSettlementCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.SettlementTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &redisSettlementCache{client: client, ttl: ttl}, nil
}

func NewNoopSettlementCache() SettlementCache {
	return &noopSettlementCache{}
}

func (c *redisSettlementCache) Get(ctx context.Context, companyID int64, start, end *time.Time) ([]domain.Settlement, bool, error) {
	payload, err := c.client.Get(ctx, buildSettlementKey(companyID, start, end)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var settlements []domain.Settlement
	if err := json.Unmarshal(payload, &settlements); err != nil {
		return nil, false, fmt.Errorf("decode settlement cache: %w", err)
	}
	return settlements, true, nil
}

func (c *redisSettlementCache) Set(ctx context.Context, companyID int64, start, end *time.Time, settlements []domain.Settlement) error {
	payload, err := json.Marshal(settlements)
	if err != nil {
		return fmt.Errorf("encode settlement cache: %w", err)
	}

	if err := c.client.Set(ctx, buildSettlementKey(companyID, start, end), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSettlementCache) Invalidate(ctx context.Context, companyID int64) error {
	var cursor uint64
	pattern := fmt.Sprintf("%s:%d:*", settlementKeyPrefix, companyID)
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (n *noopSettlementCache) Get(ctx context.Context, companyID int64, start, end *time.Time) ([]domain.Settlement, bool, error) {
	return nil, false, nil
}

func (n *noopSettlementCache) Set(ctx context.Context, companyID int64, start, end *time.Time, settlements []domain.Settlement) error {
	return nil
}

func (n *noopSettlementCache) Invalidate(ctx context.Context, companyID int64) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func buildSettlementKey(companyID int64, start, end *time.Time) string {
	raw := "all"
	if start != nil || end != nil {
		var s, e string
		if start != nil {
			s = start.Format("2006-01-02")
		}
		if end != nil {
			e = end.Format("2006-01-02")
		}
		raw = s + "|" + e
	}
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%d:%s", settlementKeyPrefix, companyID, hex.EncodeToString(hash[:]))
}
