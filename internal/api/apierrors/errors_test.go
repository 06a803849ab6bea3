package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want int
	}{
		{name: "bad request", err: NewBadRequest("x"), want: http.StatusBadRequest},
		{name: "unauthorized", err: NewUnauthorized("x", nil), want: http.StatusUnauthorized},
		{name: "forbidden", err: NewForbidden("x", nil), want: http.StatusForbidden},
		{name: "not found", err: NewNotFound("x", nil), want: http.StatusNotFound},
		{name: "conflict", err: NewConflict("x", nil), want: http.StatusConflict},
		{name: "internal", err: &APIError{Kind: KindInternal, Message: "x"}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAPIError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("token expired")
	err := fmt.Errorf("refresh: %w", NewUnauthorized("refresh token is expired or invalid", cause))

	require.ErrorIs(t, err, cause)
	apiErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
	assert.Equal(t, "refresh token is expired or invalid", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "token expired")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("db down")))
	assert.Equal(t, KindConflict, KindOf(NewConflict("user already exists", nil)))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestNewInvalidCredentials_SameMessage(t *testing.T) {
	notFound := NewInvalidCredentials(KindNotFound, nil)
	mismatch := NewInvalidCredentials(KindBadRequest, nil)

	assert.Equal(t, notFound.Message, mismatch.Message)
	assert.NotEqual(t, notFound.HTTPStatus(), mismatch.HTTPStatus())
}
