package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	generationKey   = "gymlog::log::generation"
	DefaultLogTTL   = 10 * time.Minute
	logKeyPrefixFmt = "gymlog::log::%d::%016x"
	generationMatch = "gymlog::log::%d::*"
	scanPageSize    = 100
)

//go:generate mockgen -source=$GOFILE -destination=log_cache_mocks_test.go -package=cache_test

type logQuerier interface {
	Query(ctx context.Context, filter analyzer.LogFilter) ([]analyzer.LogRow, error)
}

// LogCache caches log queries in redis. Keys carry a generation number, and
// Invalidate bumps it, so a successful append hides every cached query at once.
// Old generations expire with their TTL. When the generation cannot be bumped,
// the keys of the current one are deleted instead.
// Any redis failure falls back to computing the log.
type LogCache struct {
	redisClient    *redis.Client
	querier        logQuerier
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewLogCache(
	redisClient *redis.Client,
	querier logQuerier,
	ttl time.Duration,
	metricsManager *metrics.Manager,
) *LogCache {
	if ttl <= 0 {
		ttl = DefaultLogTTL
	}
	return &LogCache{
		redisClient:    redisClient,
		querier:        querier,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

// LogKey is the redis key of a filter's result within a cache generation.
func LogKey(generation int64, filter analyzer.LogFilter) (string, error) {
	filterJson, err := json.Marshal(filter.Normalized())
	if err != nil {
		return "", fmt.Errorf("marshal filter: %w", err)
	}
	return fmt.Sprintf(logKeyPrefixFmt, generation, xxhash.Sum64(filterJson)), nil
}

func (c *LogCache) Query(ctx context.Context, filter analyzer.LogFilter) (_ []analyzer.LogRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.gymlog.log.query")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	generation, err := c.generation(ctx)
	if err != nil {
		log.Warnf("log cache: get generation: %s", err)
		c.metricsManager.LogCacheMiss()
		return c.querier.Query(ctx, filter)
	}

	key, err := LogKey(generation, filter)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("cache.key", key))

	if rowsBytes, err := c.redisClient.Get(ctx, key).Bytes(); err == nil {
		var rows []analyzer.LogRow
		if err := json.Unmarshal(rowsBytes, &rows); err == nil {
			log.Tracef("log cache hit: %s", key)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			c.metricsManager.LogCacheHit()
			return rows, nil
		} else {
			log.Errorf("log cache: unmarshal rows for %s: %s", key, err)
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warnf("log cache: get %s: %s", key, err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))
	c.metricsManager.LogCacheMiss()

	rows, err := c.querier.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	rowsBytes, err := json.Marshal(rows)
	if err != nil {
		log.Errorf("log cache: marshal rows: %s", err)
		return rows, nil
	}
	if err := c.redisClient.Set(ctx, key, rowsBytes, c.ttl).Err(); err != nil {
		log.Warnf("log cache: set %s: %s", key, err)
	}

	return rows, nil
}

// Invalidate makes every cached query unreachable.
func (c *LogCache) Invalidate(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.gymlog.log.invalidate")
	defer span.End()

	generation, err := c.redisClient.Incr(ctx, generationKey).Result()
	if err != nil {
		log.Errorf("log cache: invalidate: %s", err)
		span.RecordError(err)
		// if the keys cannot be dropped either, stale entries live until their TTL
		if err := c.dropCurrentGeneration(ctx); err != nil {
			log.Errorf("log cache: drop current generation: %s", err)
			span.RecordError(err)
		}
		return
	}
	span.SetAttributes(attribute.Int64("cache.generation", generation))
	log.Debugf("log cache invalidated, generation: %d", generation)
}

func (c *LogCache) dropCurrentGeneration(ctx context.Context) error {
	generation, err := c.generation(ctx)
	if err != nil {
		return fmt.Errorf("get generation: %w", err)
	}

	match := fmt.Sprintf(generationMatch, generation)
	var staleKeys []string
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, match, scanPageSize).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", match, err)
		}
		staleKeys = append(staleKeys, keys...)
		if next == 0 {
			break
		}
		cursor = next
	}

	if len(staleKeys) == 0 {
		return nil
	}
	if err := c.redisClient.Del(ctx, staleKeys...).Err(); err != nil {
		return fmt.Errorf("del %d keys: %w", len(staleKeys), err)
	}
	log.Debugf("log cache: dropped %d keys of generation %d", len(staleKeys), generation)
	return nil
}

func (c *LogCache) generation(ctx context.Context) (int64, error) {
	generation, err := c.redisClient.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}
