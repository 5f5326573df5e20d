package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteError(w, 400, "test_error", "Test message")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test_error", resp.Error)
	assert.Equal(t, "Test message", resp.Message)
	assert.Empty(t, resp.Details)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, http.StatusCreated, models.OK("done"))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"done"}`, w.Body.String())
}

func TestWriteRateLimited(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteRateLimited(w, "Too many attempts", 90*time.Second+time.Millisecond)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "91", w.Header().Get("Retry-After"))

	var resp pkghttp.RateLimitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limit_exceeded", resp.Error)
	assert.Equal(t, 91, resp.RetryAfterSeconds)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{models.ErrBadRequest, 400, "bad_request"},
		{models.ErrUnauthorized, 401, "unauthorized"},
		{models.ErrSessionExpired, 401, "unauthorized"},
		{models.ErrForbidden, 403, "forbidden"},
		{fmt.Errorf("wrapped: %w", models.ErrNotFound), 404, "not_found"},
		{models.ErrConflict, 409, "conflict"},
		{models.ErrRateLimitExceeded, 429, "rate_limit_exceeded"},
		{errors.New("boom"), 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := pkghttp.StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWriteModelError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteModelError(w, errors.New("connection refused to 10.0.0.3"))

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "internal server error", resp.Message)
}
