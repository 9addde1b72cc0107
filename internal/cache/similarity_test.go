package cache

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	service.CatalogRepositoryInterface
	mock.Mock
}

func (m *mockCatalog) SimilarityRow(ctx context.Context, recipeID int64) (*domain.SimilarityRow, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SimilarityRow), args.Error(1)
}

func unreachableRedis() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRowCodecPreservesScores(t *testing.T) {
	row := domain.NewSimilarityRow(563, []int64{563, -2326}, []float32{1, 0.452267})

	raw, err := encodeRow(row)
	require.NoError(t, err)
	decoded, err := decodeRow(raw)
	require.NoError(t, err)

	assert.Equal(t, row, decoded)
	assert.Equal(t, 0.452267, decoded.Scores[1])
}

func TestDecodeRowRejectsGarbage(t *testing.T) {
	_, err := decodeRow([]byte("not json"))
	assert.Error(t, err)

	_, err = decodeRow([]byte(`{"neighbor_ids":[1]}`))
	assert.Error(t, err)
}

func TestSimilarityCacheFallsThroughWhenRedisIsDown(t *testing.T) {
	row := domain.NewSimilarityRow(1, []int64{1, 2}, []float32{1, 0.5})
	inner := new(mockCatalog)
	inner.On("SimilarityRow", mock.Anything, int64(1)).Return(row, nil)

	rdb := unreachableRedis()
	defer rdb.Close()

	got, err := NewSimilarityCache(inner, rdb, time.Minute).SimilarityRow(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, row, got)
	inner.AssertNumberOfCalls(t, "SimilarityRow", 1)
}

func TestSimilarityCachePassesNotFoundThrough(t *testing.T) {
	inner := new(mockCatalog)
	inner.On("SimilarityRow", mock.Anything, int64(9)).Return(nil, domain.ErrSimilarityNotFound)

	rdb := unreachableRedis()
	defer rdb.Close()

	_, err := NewSimilarityCache(inner, rdb, time.Minute).SimilarityRow(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrSimilarityNotFound)
}

func TestRowKey(t *testing.T) {
	assert.Equal(t, "greenplate:similarity:v1:563", rowKey(563))
}
