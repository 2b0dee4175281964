package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Health godoc
// @Summary      Health check
// @Description  Reports API, database and redis availability.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok"}
	httpStatus := http.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "down"
		status["status"] = "degraded"
		httpStatus = http.StatusServiceUnavailable
	} else {
		status["database"] = "up"
	}

	if h.rdb == nil || h.rdb.Ping(ctx).Err() != nil {
		status["redis"] = "down"
		status["status"] = "degraded"
	} else {
		status["redis"] = "up"
	}

	c.JSON(httpStatus, status)
}
