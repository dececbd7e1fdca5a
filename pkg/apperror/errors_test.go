package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading sale: %w", ErrSaleNotFound)
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, http.StatusNotFound, GetAppError(wrapped).Code)

	plain := errors.New("pq: connection refused")
	assert.False(t, IsAppError(plain))
	got := GetAppError(plain)
	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.NotContains(t, got.Message, "pq")
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "items", Message: "is required"}})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 1)
}
