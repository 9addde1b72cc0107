package service

import (
	"context"
	"sync"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock implementation of CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindBySlug(ctx context.Context, slug string) (*domain.Recipe, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockCatalogRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Recipe), args.Error(1)
}

func (m *MockCatalogRepository) SimilarityRow(ctx context.Context, recipeID int64) (*domain.SimilarityRow, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SimilarityRow), args.Error(1)
}

func (m *MockCatalogRepository) TextRank(ctx context.Context, term string, limit int) ([]domain.ScoredRecipe, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredRecipe), args.Error(1)
}

func (m *MockCatalogRepository) EditDistanceRank(ctx context.Context, q domain.FuzzyQuery) ([]domain.ScoredRecipe, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredRecipe), args.Error(1)
}

func (m *MockCatalogRepository) AllEmissionScores(ctx context.Context) ([]domain.EmissionScore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmissionScore), args.Error(1)
}

// MockInteractionRepository is a mock implementation of InteractionRepositoryInterface
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Get(ctx context.Context, userID, recipeID int64) (*domain.Interaction, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) GetMany(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]domain.Interaction, error) {
	args := m.Called(ctx, userID, recipeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) UpsertRating(ctx context.Context, userID, recipeID int64, rating domain.Rating) error {
	args := m.Called(ctx, userID, recipeID, rating)
	return args.Error(0)
}

func (m *MockInteractionRepository) UpsertBookmark(ctx context.Context, userID, recipeID int64) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInteractionRepository) DeleteBookmarked(ctx context.Context, userID, recipeID int64) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInteractionRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.CookbookEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CookbookEntry), args.Error(1)
}

// memoryInteractions is a stateful InteractionRepositoryInterface with the
// same upsert semantics as the Postgres repository.
type memoryInteractions struct {
	mu      sync.Mutex
	records map[[2]int64]domain.Interaction
	users   map[int64]bool
}

func newMemoryInteractions(users ...int64) *memoryInteractions {
	m := &memoryInteractions{records: map[[2]int64]domain.Interaction{}, users: map[int64]bool{}}
	for _, u := range users {
		m.users[u] = true
	}
	return m
}

func (m *memoryInteractions) Get(ctx context.Context, userID, recipeID int64) (*domain.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.records[[2]int64{userID, recipeID}]
	if !ok {
		return nil, domain.ErrInteractionNotFound
	}
	return &in, nil
}

func (m *memoryInteractions) GetMany(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]domain.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64]domain.Interaction{}
	for _, id := range recipeIDs {
		if in, ok := m.records[[2]int64{userID, id}]; ok {
			out[id] = in
		}
	}
	return out, nil
}

func (m *memoryInteractions) UpsertRating(ctx context.Context, userID, recipeID int64, rating domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.users[userID] {
		return domain.ErrUserNotFound
	}
	key := [2]int64{userID, recipeID}
	in, ok := m.records[key]
	if !ok {
		in = domain.DefaultInteraction(userID, recipeID)
	}
	in.Rating = rating
	m.records[key] = in
	return nil
}

func (m *memoryInteractions) UpsertBookmark(ctx context.Context, userID, recipeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.users[userID] {
		return false, domain.ErrUserNotFound
	}
	key := [2]int64{userID, recipeID}
	in, ok := m.records[key]
	if ok && in.Bookmarked {
		return false, nil
	}
	if !ok {
		in = domain.DefaultInteraction(userID, recipeID)
	}
	in.Bookmarked = true
	m.records[key] = in
	return true, nil
}

func (m *memoryInteractions) DeleteBookmarked(ctx context.Context, userID, recipeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{userID, recipeID}
	in, ok := m.records[key]
	if !ok || !in.Bookmarked {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

func (m *memoryInteractions) ListForUser(ctx context.Context, userID int64) ([]*domain.CookbookEntry, error) {
	return nil, nil
}

type testTxRepos struct {
	interactions InteractionRepositoryInterface
}

func (t *testTxRepos) Catalog() CatalogWriter {
	return nil
}

func (t *testTxRepos) Interactions() InteractionRepositoryInterface {
	return t.interactions
}

type testTxRunner struct {
	repos  TxRepositories
	called bool
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	return fn(t.repos)
}

type prefixImages struct {
	prefix string
}

func (p prefixImages) ResolveImageURL(ctx context.Context, ref string) string {
	return p.prefix + ref
}

func recipe(id int64, slug string) *domain.Recipe {
	return &domain.Recipe{ID: id, Slug: slug, Title: slug, Rating: 4, PercSustainability: 50}
}
