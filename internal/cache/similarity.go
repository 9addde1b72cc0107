// Package cache keeps immutable catalog data in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/metrics"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "greenplate:similarity:v1"

// NewRedisClient connects to url and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// SimilarityCache serves similarity rows from Redis and falls through to the
// wrapped catalog on a miss. Redis failures degrade to the catalog; they are
// never returned.
type SimilarityCache struct {
	service.CatalogRepositoryInterface
	rdb *goredis.Client
	ttl time.Duration
}

func NewSimilarityCache(catalog service.CatalogRepositoryInterface, rdb *goredis.Client, ttl time.Duration) *SimilarityCache {
	return &SimilarityCache{CatalogRepositoryInterface: catalog, rdb: rdb, ttl: ttl}
}

type cachedRow struct {
	RecipeID    int64     `json:"recipe_id"`
	NeighborIDs []int64   `json:"neighbor_ids"`
	Scores      []float64 `json:"scores"`
}

func (c *SimilarityCache) SimilarityRow(ctx context.Context, recipeID int64) (*domain.SimilarityRow, error) {
	key := rowKey(recipeID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		row, decodeErr := decodeRow(raw)
		if decodeErr == nil {
			metrics.SimilarityCacheHits.Inc()
			return row, nil
		}
		logging.Ctx(ctx).Warn().Err(decodeErr).Str("key", key).Msg("discarding unreadable cached similarity row")
	case errors.Is(err, goredis.Nil):
	default:
		logging.Ctx(ctx).Warn().Err(err).Msg("similarity cache unavailable")
	}
	metrics.SimilarityCacheMisses.Inc()

	row, err := c.CatalogRepositoryInterface.SimilarityRow(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	payload, err := encodeRow(row)
	if err != nil {
		return row, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to cache similarity row")
	}
	return row, nil
}

func rowKey(recipeID int64) string {
	return fmt.Sprintf("%s:%d", keyPrefix, recipeID)
}

func encodeRow(row *domain.SimilarityRow) ([]byte, error) {
	return json.Marshal(cachedRow{
		RecipeID:    row.RecipeID,
		NeighborIDs: row.NeighborIDs,
		Scores:      row.Scores,
	})
}

func decodeRow(raw []byte) (*domain.SimilarityRow, error) {
	var c cachedRow
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.RecipeID <= 0 {
		return nil, errors.New("cached similarity row has no recipe id")
	}
	return &domain.SimilarityRow{
		RecipeID:    c.RecipeID,
		NeighborIDs: c.NeighborIDs,
		Scores:      c.Scores,
	}, nil
}
