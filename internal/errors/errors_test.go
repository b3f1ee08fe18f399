package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrPersistence, "create thread", cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "failed to create thread: connection reset", err.Error())

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "create thread", opErr.Op)
}

func TestWrap_WithoutCause(t *testing.T) {
	err := Wrap(ErrNotFound, "fetch thread", nil)
	assert.Equal(t, "failed to fetch thread: not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, KindOf(Newf(ErrNotFound, "fetch user", "user %s", "u1")))
	assert.Equal(t, ErrConflict, KindOf(fmt.Errorf("outer: %w", Wrap(ErrConflict, "update user", nil))))
	assert.Equal(t, ErrPersistence, KindOf(errors.New("plain")))
}

func TestRespond_StatusByKind(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", Wrap(ErrNotFound, "fetch thread", nil), http.StatusNotFound, ErrCodeNotFound},
		{"validation", Wrap(ErrValidation, "create thread", errors.New("text is required")), http.StatusBadRequest, ErrCodeInvalidInput},
		{"conflict", Wrap(ErrConflict, "update user", nil), http.StatusConflict, ErrCodeConflict},
		{"connection", Wrap(ErrConnection, "connect", nil), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"persistence", Wrap(ErrPersistence, "fetch threads", errors.New("secret detail")), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Respond(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, body.Message, "secret detail")
		})
	}
}
