package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/application/identity"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/infrastructure/logger"
	"github.com/itou/backend/internal/interfaces/http/dto"
	"github.com/itou/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// ErrInvalidPage is returned for a page number outside the listing
var ErrInvalidPage = shared.NewDomainError("NOT_FOUND", "Invalid page.")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getPrincipal returns the authenticated caller or an error
func getPrincipal(c *gin.Context) (*identity.Principal, error) {
	if p := middleware.GetPrincipal(c); p != nil {
		return p, nil
	}
	return nil, shared.ErrUnauthorized
}

// pageParam parses the 1-based page query parameter
func pageParam(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, ErrInvalidPage
	}
	return page, nil
}

// absoluteURL rebuilds the request URL on the configured public base URL
func absoluteURL(c *gin.Context, baseURL string) *url.URL {
	u, err := url.Parse(baseURL + c.Request.URL.RequestURI())
	if err != nil {
		return c.Request.URL
	}
	return u
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError converts domain errors to HTTP responses. Anything else
// is logged and answered with a 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c, "An unexpected error occurred")
}
