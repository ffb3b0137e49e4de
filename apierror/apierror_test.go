package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       *Error
	}{
		{"not found", http.StatusNotFound, ErrNotFound404},
		{"internal server error", http.StatusInternalServerError, ErrInternalServerError500},
		{"validation errors", http.StatusUnprocessableEntity, ErrValidationErrors422},
		{"bad request", http.StatusBadRequest, ErrInvalidResponse},
		{"redirect", http.StatusFound, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.statusCode, "detail")
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.statusCode, err.StatusCode)
		})
	}
}

func TestError_IsComparesKindOnly(t *testing.T) {
	a := SuccessWithError(map[string]string{"message": "a"})
	b := SuccessWithError([]int{1, 2, 3})

	assert.True(t, errors.Is(a, b))
	assert.True(t, errors.Is(a, ErrSuccessWithError))
	assert.False(t, errors.Is(a, ErrDecode))
}

func TestError_WrappedCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("login: %w", Wrap(KindTransport, cause))

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Contains(t, err.Error(), "transportError")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
