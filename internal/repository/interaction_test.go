//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionRepository(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(ctx, t)
	users := NewUserRepository(pool)
	repo := NewInteractionRepository(pool)

	user, err := users.Create(ctx)
	require.NoError(t, err)

	t.Run("bookmark is idempotent", func(t *testing.T) {
		created, err := repo.UpsertBookmark(ctx, user.ID, 563)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.UpsertBookmark(ctx, user.ID, 563)
		require.NoError(t, err)
		assert.False(t, created)

		in, err := repo.Get(ctx, user.ID, 563)
		require.NoError(t, err)
		assert.True(t, in.Bookmarked)
		assert.Equal(t, domain.RatingNeutral, in.Rating)
	})

	t.Run("rating round trip keeps the bookmark", func(t *testing.T) {
		require.NoError(t, repo.UpsertRating(ctx, user.ID, 563, domain.RatingLike))

		in, err := repo.Get(ctx, user.ID, 563)
		require.NoError(t, err)
		assert.Equal(t, domain.RatingLike, in.Rating)
		assert.True(t, in.Bookmarked)
	})

	t.Run("rating an unbookmarked recipe creates a record", func(t *testing.T) {
		require.NoError(t, repo.UpsertRating(ctx, user.ID, 4310, domain.RatingDislike))

		in, err := repo.Get(ctx, user.ID, 4310)
		require.NoError(t, err)
		assert.False(t, in.Bookmarked)
		assert.Equal(t, domain.RatingDislike, in.Rating)
	})

	t.Run("get many", func(t *testing.T) {
		got, err := repo.GetMany(ctx, user.ID, []int64{563, 4310, 2326})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.True(t, got[563].Bookmarked)

		_, err = repo.Get(ctx, user.ID, 2326)
		assert.ErrorIs(t, err, domain.ErrInteractionNotFound)
	})

	t.Run("list for user returns every record, best rated first", func(t *testing.T) {
		_, err := repo.UpsertBookmark(ctx, user.ID, 2326)
		require.NoError(t, err)

		entries, err := repo.ListForUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "pineapple-salsa", entries[0].Recipe.Slug)
		assert.Equal(t, "mango-salsa", entries[1].Recipe.Slug)
		assert.Equal(t, "chicken-curry", entries[2].Recipe.Slug)
		assert.False(t, entries[2].Interaction.Bookmarked)
		assert.Equal(t, domain.RatingDislike, entries[2].Interaction.Rating)
	})

	t.Run("unbookmark deletes only bookmarked records", func(t *testing.T) {
		removed, err := repo.DeleteBookmarked(ctx, user.ID, 2326)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.DeleteBookmarked(ctx, user.ID, 2326)
		require.NoError(t, err)
		assert.False(t, removed)

		removed, err = repo.DeleteBookmarked(ctx, user.ID, 4310)
		require.NoError(t, err)
		assert.False(t, removed)
		_, err = repo.Get(ctx, user.ID, 4310)
		assert.NoError(t, err)
	})

	t.Run("unknown user or recipe maps to not found", func(t *testing.T) {
		_, err := repo.UpsertBookmark(ctx, 999999, 563)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		err = repo.UpsertRating(ctx, user.ID, 999999, domain.RatingLike)
		assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})

	t.Run("tx runner commits and rolls back", func(t *testing.T) {
		runner := NewTxRunner(pool)

		err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
			_, err := repos.Interactions().UpsertBookmark(ctx, user.ID, 10)
			return err
		})
		require.NoError(t, err)
		in, err := repo.Get(ctx, user.ID, 10)
		require.NoError(t, err)
		assert.True(t, in.Bookmarked)

		err = runner.WithTx(ctx, func(repos service.TxRepositories) error {
			if _, err := repos.Interactions().DeleteBookmarked(ctx, user.ID, 10); err != nil {
				return err
			}
			return errors.New("abort")
		})
		require.Error(t, err)
		_, err = repo.Get(ctx, user.ID, 10)
		assert.NoError(t, err)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(ctx, t)
	users := NewUserRepository(pool)
	interactions := NewInteractionRepository(pool)

	first, err := users.Create(ctx)
	require.NoError(t, err)
	second, err := users.Create(ctx)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	_, err = interactions.UpsertBookmark(ctx, second.ID, 563)
	require.NoError(t, err)
	require.NoError(t, interactions.UpsertRating(ctx, second.ID, 4310, domain.RatingLike))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, 0, list[0].Bookmarks)
	assert.Equal(t, 1, list[1].Bookmarks)
}
