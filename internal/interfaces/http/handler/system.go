package handler

import (
	"context"
	"net/http"
	"runtime"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/interfaces/http/dto"
)

// healthCheckTimeout bounds every dependency check
const healthCheckTimeout = 2 * time.Second

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler handles the health and info endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	checks    map[string]HealthCheck
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. checks are keyed by
// dependency name ("database", "redis").
func NewSystemHandler(name, version string, checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		checks:    checks,
		startTime: time.Now(),
	}
}

// HealthResponse reports the state of the service and of each dependency
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @Summary      Health check
// @Description  Answers 200 when every dependency responds, 503 otherwise
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo godoc
// @Summary      System information
// @Description  Returns the version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
