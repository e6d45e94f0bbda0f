package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rently/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	database  Pinger
	cache     Pinger
}

// NewSystemHandler creates a new system handler. The cache pinger may be
// nil when caching is disabled.
func NewSystemHandler(database, cache Pinger) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		database:  database,
		cache:     cache,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status" example:"healthy"`
	Uptime     string            `json:"uptime" example:"1h30m45s"`
	GoVersion  string            `json:"go_version" example:"go1.25.5"`
	Components map[string]string `json:"components"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports service health including database and cache reachability
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{}
	healthy := true

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			components["database"] = "unreachable"
			healthy = false
		} else {
			components["database"] = "ok"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			components["cache"] = "unreachable"
		} else {
			components["cache"] = "ok"
		}
	}

	response := HealthResponse{
		Status:     "healthy",
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Components: components,
	}

	// Cache outages degrade but do not fail the service
	if !healthy {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(response))
		return
	}

	h.Success(c, response)
}
