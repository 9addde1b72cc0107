package service

import (
	"context"
	"sort"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

const defaultFavoritesLimit = 5

// CookbookRequest asks for one page of a user's saved recipes.
type CookbookRequest struct {
	UserID int64
	Sort   string
	Page   int
}

// CategoryCount is one entry of a user's favourite categories.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CookbookService lists the recipes a user has interacted with.
type CookbookService struct {
	interactions InteractionRepositoryInterface
	assembler    *Assembler
	pageSize     int
}

func NewCookbookService(interactions InteractionRepositoryInterface, assembler *Assembler, pageSize int) *CookbookService {
	if pageSize <= 0 {
		pageSize = DefaultCookbookPageSize
	}
	return &CookbookService{interactions: interactions, assembler: assembler, pageSize: pageSize}
}

// Page returns the user's bookmarked recipes ordered by the user's own rating.
func (s *CookbookService) Page(ctx context.Context, req CookbookRequest) (*domain.ResultPage, error) {
	if req.UserID <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	sortKey, err := validatePresentation(req.Sort, req.Page)
	if err != nil {
		return nil, err
	}

	entries, err := s.list(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ScoredRecipe, 0, len(entries))
	overlay := make(map[int64]domain.Interaction, len(entries))
	for _, e := range entries {
		if !e.Interaction.Bookmarked {
			continue
		}
		results = append(results, domain.ScoredRecipe{Recipe: e.Recipe, Score: float64(e.Interaction.Rating)})
		overlay[e.Recipe.ID] = e.Interaction
	}

	return s.assembler.Assemble(ctx, AssembleInput{
		UserID:   req.UserID,
		Route:    domain.RouteNone,
		Results:  results,
		Sort:     sortKey,
		Page:     req.Page,
		PageSize: s.pageSize,
		Overlay:  overlay,
	})
}

// Favorites returns up to n recipes the user rated as liked, bookmarked or not.
func (s *CookbookService) Favorites(ctx context.Context, userID int64, n int) ([]*domain.Recipe, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	if n <= 0 {
		n = defaultFavoritesLimit
	}
	entries, err := s.list(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Recipe, 0, n)
	for _, e := range entries {
		if e.Interaction.Rating != domain.RatingLike {
			continue
		}
		out = append(out, e.Recipe)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// FavoriteCategories counts the category tags across the cookbook and
// returns the n most frequent. Ties are ordered by name.
func (s *CookbookService) FavoriteCategories(ctx context.Context, userID int64, n int) ([]CategoryCount, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	if n <= 0 {
		n = defaultFavoritesLimit
	}
	entries, err := s.list(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, e := range entries {
		for _, c := range e.Recipe.CategoryList() {
			counts[c]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, k := range counts {
		out = append(out, CategoryCount{Category: c, Count: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *CookbookService) list(ctx context.Context, userID int64) ([]*domain.CookbookEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.cookbook.list", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "list_cookbook",
	})
	defer span.End()

	entries, err := s.interactions.ListForUser(ctx, userID)
	if err != nil {
		span.SetError(err)
		return nil, storeError("list cookbook", err)
	}
	return entries, nil
}
