package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/metrics"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

// InteractionService mutates and reads a user's bookmarks and ratings.
// Every mutation is a single upsert or delete on the (user, recipe) key.
type InteractionService struct {
	catalog      CatalogRepositoryInterface
	interactions InteractionRepositoryInterface
	txRunner     TxRunner
}

func NewInteractionService(catalog CatalogRepositoryInterface, interactions InteractionRepositoryInterface) *InteractionService {
	return &InteractionService{catalog: catalog, interactions: interactions}
}

func NewInteractionServiceWithTx(catalog CatalogRepositoryInterface, interactions InteractionRepositoryInterface, txRunner TxRunner) *InteractionService {
	return &InteractionService{catalog: catalog, interactions: interactions, txRunner: txRunner}
}

func (s *InteractionService) RateRecipe(ctx context.Context, userID int64, slug string, rating domain.Rating) error {
	if !rating.Valid() {
		return domain.ErrInvalidRating
	}
	ctx, span, recipe, err := s.begin(ctx, "rate", userID, slug)
	if err != nil {
		return err
	}
	defer span.End()

	if err := s.interactions.UpsertRating(ctx, userID, recipe.ID, rating); err != nil {
		span.SetError(err)
		return s.fail("rate", err)
	}
	metrics.InteractionMutations.WithLabelValues("rate", "ok").Inc()
	logging.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Int("rating", int(rating)).Msg("recipe rated")
	return nil
}

func (s *InteractionService) AddBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error) {
	ctx, span, recipe, err := s.begin(ctx, "add_bookmark", userID, slug)
	if err != nil {
		return "", err
	}
	defer span.End()

	return s.addBookmark(ctx, s.interactions, userID, recipe.ID)
}

func (s *InteractionService) RemoveBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error) {
	ctx, span, recipe, err := s.begin(ctx, "remove_bookmark", userID, slug)
	if err != nil {
		return "", err
	}
	defer span.End()

	return s.removeBookmark(ctx, s.interactions, userID, recipe.ID)
}

// ToggleBookmark removes an existing bookmark or creates a missing one.
func (s *InteractionService) ToggleBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error) {
	ctx, span, recipe, err := s.begin(ctx, "toggle_bookmark", userID, slug)
	if err != nil {
		return "", err
	}
	defer span.End()

	toggle := func(repo InteractionRepositoryInterface) (domain.BookmarkStatus, error) {
		current, err := repo.Get(ctx, userID, recipe.ID)
		if err != nil && !errors.Is(err, domain.ErrInteractionNotFound) {
			return "", s.fail("toggle_bookmark", err)
		}
		if current != nil && current.Bookmarked {
			return s.removeBookmark(ctx, repo, userID, recipe.ID)
		}
		return s.addBookmark(ctx, repo, userID, recipe.ID)
	}

	if s.txRunner == nil {
		return toggle(s.interactions)
	}

	var status domain.BookmarkStatus
	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		var txErr error
		status, txErr = toggle(repos.Interactions())
		return txErr
	})
	if err != nil {
		span.SetError(err)
		return "", storeError("toggle_bookmark", err)
	}
	return status, nil
}

func (s *InteractionService) IsBookmarked(ctx context.Context, userID int64, slug string) (bool, error) {
	in, err := s.lookup(ctx, userID, slug)
	if err != nil {
		return false, err
	}
	return in.Bookmarked, nil
}

// UserRating is the user's rating of a recipe, neutral when none is recorded.
func (s *InteractionService) UserRating(ctx context.Context, userID int64, slug string) (domain.Rating, error) {
	in, err := s.lookup(ctx, userID, slug)
	if err != nil {
		return 0, err
	}
	return in.Rating, nil
}

func (s *InteractionService) lookup(ctx context.Context, userID int64, slug string) (domain.Interaction, error) {
	ctx, span, recipe, err := s.begin(ctx, "lookup", userID, slug)
	if err != nil {
		return domain.Interaction{}, err
	}
	defer span.End()

	in, err := s.interactions.Get(ctx, userID, recipe.ID)
	if errors.Is(err, domain.ErrInteractionNotFound) {
		return domain.DefaultInteraction(userID, recipe.ID), nil
	}
	if err != nil {
		span.SetError(err)
		return domain.Interaction{}, storeError("get interaction", err)
	}
	return *in, nil
}

// begin validates input and resolves the recipe. Nothing is written on error.
func (s *InteractionService) begin(ctx context.Context, op string, userID int64, slug string) (context.Context, *telemetry.Span, *domain.Recipe, error) {
	if userID <= 0 {
		return ctx, nil, nil, domain.ErrInvalidUserID
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ctx, nil, nil, domain.ErrEmptySlug
	}

	ctx, span := telemetry.StartSpan(ctx, "service.interaction."+op, telemetry.SpanAttributes{
		UserID:    userID,
		Slug:      slug,
		Operation: op,
	})

	recipe, err := s.catalog.FindBySlug(ctx, slug)
	if err != nil {
		span.End()
		metrics.InteractionMutations.WithLabelValues(op, "rejected").Inc()
		return ctx, nil, nil, storeError("find recipe by slug", err)
	}
	return ctx, span, recipe, nil
}

func (s *InteractionService) addBookmark(ctx context.Context, repo InteractionRepositoryInterface, userID, recipeID int64) (domain.BookmarkStatus, error) {
	created, err := repo.UpsertBookmark(ctx, userID, recipeID)
	if err != nil {
		return "", s.fail("add_bookmark", err)
	}
	status := domain.BookmarkCreated
	if !created {
		status = domain.BookmarkAlreadyExists
	}
	metrics.InteractionMutations.WithLabelValues("add_bookmark", string(status)).Inc()
	return status, nil
}

func (s *InteractionService) removeBookmark(ctx context.Context, repo InteractionRepositoryInterface, userID, recipeID int64) (domain.BookmarkStatus, error) {
	removed, err := repo.DeleteBookmarked(ctx, userID, recipeID)
	if err != nil {
		return "", s.fail("remove_bookmark", err)
	}
	status := domain.BookmarkRemoved
	if !removed {
		status = domain.BookmarkNotBookmarked
	}
	metrics.InteractionMutations.WithLabelValues("remove_bookmark", string(status)).Inc()
	return status, nil
}

func (s *InteractionService) fail(op string, err error) error {
	metrics.InteractionMutations.WithLabelValues(op, "error").Inc()
	return storeError(op, err)
}
