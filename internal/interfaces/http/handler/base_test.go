package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/interfaces/http/dto"
	"github.com/itou/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDContextKey, "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestPageParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"page=1", 1, false},
		{"page=3", 3, false},
		{"page=0", 0, true},
		{"page=-2", 0, true},
		{"page=last", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

			page, err := pageParam(c)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/employee-records/?status=NEW", nil)
	c.Request.Host = "attacker.example"

	u := absoluteURL(c, "https://emplois.inclusion.beta.gouv.fr")

	assert.Equal(t, "https://emplois.inclusion.beta.gouv.fr/api/v1/employee-records/?status=NEW", u.String())
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid input", shared.NewDomainError("INVALID_INPUT", "Unknown status: FOO"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"wrapped", fmt.Errorf("loading record: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDContextKey, "req-1")

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerUnknownErrorHidesDetails(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleDomainError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
	assert.Len(t, c.Errors, 1)
}
