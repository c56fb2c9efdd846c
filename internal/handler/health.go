package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/pkg/health"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	monitor *health.Monitor
}

type HealthCheckResponse struct {
	Service   string               `json:"service"`
	Status    string               `json:"status"`
	Version   string               `json:"version"`
	Timestamp time.Time            `json:"timestamp"`
	Checks    []health.CheckResult `json:"checks,omitempty"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// BasicHealth is the liveness check. It touches no dependency.
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthCheckResponse{
		Service:   constants.AppName,
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now().UTC(),
	})
}

// HealthCheck runs every registered dependency check. Only a failing
// critical check makes the service unhealthy.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	h.respond(c, func(health.CheckResult) bool { return true })
}

// Ready is the readiness check. It reports only the critical checks.
func (h *HealthHandler) Ready(c *gin.Context) {
	h.respond(c, func(r health.CheckResult) bool { return r.Critical })
}

func (h *HealthHandler) respond(c *gin.Context, keep func(health.CheckResult) bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report := h.monitor.CheckAll(ctx)

	response := HealthCheckResponse{
		Service:   constants.AppName,
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now().UTC(),
	}
	statusCode := http.StatusOK
	for _, check := range report.Checks {
		if !keep(check) {
			continue
		}
		response.Checks = append(response.Checks, check)
		switch check.Status {
		case health.StatusUnhealthy:
			response.Status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		case health.StatusDegraded:
			if statusCode == http.StatusOK {
				response.Status = "degraded"
			}
		}
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("path", c.FullPath()),
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}
