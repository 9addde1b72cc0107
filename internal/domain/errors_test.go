package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorIsMatchesWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrRecipeNotFound)

	assert.True(t, errors.Is(wrapped, ErrRecipeNotFound))
	assert.False(t, errors.Is(wrapped, ErrUserNotFound))
	assert.True(t, IsNotFound(wrapped))
}

func TestStoreUnavailable(t *testing.T) {
	assert.NoError(t, StoreUnavailable("op", nil))

	err := StoreUnavailable("find recipe", errors.New("connection refused"))
	assert.True(t, IsStoreUnavailable(err))
	assert.Contains(t, err.Error(), "connection refused")

	passthrough := StoreUnavailable("find recipe", ErrRecipeNotFound)
	assert.True(t, errors.Is(passthrough, ErrRecipeNotFound))
	assert.False(t, IsStoreUnavailable(passthrough))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, ErrorCode(ErrEmptyQuery))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.True(t, IsValidation(ErrNegativePage))
}
