package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{ErrJobNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{Validation("bad", nil), http.StatusBadRequest},
		{ErrDuplicateActiveContract, http.StatusConflict},
		{InvalidTransition("контракт", "completed", "active"), http.StatusUnprocessableEntity},
		{New(ErrCodeDatabaseError, "db"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus, tt.err.Message)
	}
}

func TestIs_MatchesSentinelThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create contract: %w", ErrDuplicateActiveContract)
	assert.ErrorIs(t, wrapped, ErrDuplicateActiveContract)
	assert.NotErrorIs(t, wrapped, ErrDuplicateApplication)
	assert.True(t, IsConflict(wrapped))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeDatabaseError, "ошибка базы данных")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}

func TestValidation_Fields(t *testing.T) {
	assert.Nil(t, Validation("bad", map[string]string{}).Fields)
	assert.Equal(t, "обязательное поле", Validation("bad", map[string]string{"title": "обязательное поле"}).Fields["title"])
}
