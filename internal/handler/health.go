package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the process and its two backing stores.
type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	resp := gin.H{"status": "ok", "database": "ok", "redis": "ok"}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		resp["database"] = "unreachable"
		resp["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	// Redis is optional infrastructure; report but stay healthy without it.
	if h.rdb == nil {
		resp["redis"] = "disabled"
	} else if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		resp["redis"] = "unreachable"
	}

	c.JSON(status, resp)
}
