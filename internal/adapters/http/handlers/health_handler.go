package handlers

import (
	"unicampus/internal/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db       *gorm.DB
	inMemory bool
	service  string
	mode     string
}

// NewHealthHandler creates a new health handler. db is nil when the service
// runs on the in-memory store.
func NewHealthHandler(db *gorm.DB, dbCfg config.DatabaseConfig, service, mode string) *HealthHandler {
	return &HealthHandler{db: db, inMemory: dbCfg.InMemory(), service: service, mode: mode}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"service": h.service,
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "healthy"
	if h.inMemory {
		dbStatus = config.DriverMemory
	} else if err := config.HealthCheck(h.db); err != nil {
		status = "degraded"
		dbStatus = "unhealthy"
		c.Status(fiber.StatusServiceUnavailable)
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"service": h.service,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
	})
}
