package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// HealthHandler defines the interface for the readiness probe
type HealthHandler interface {
	Check(ctx *gin.Context)
}

type healthHandler struct {
	db    *gorm.DB
	cache *gocache.Cache
}

// NewHealthHandler creates a new HealthHandler with its own probe cache
func NewHealthHandler(db *gorm.DB) HealthHandler {
	return &healthHandler{
		db:    db,
		cache: gocache.New(time.Minute, 5*time.Minute),
	}
}

// Check probes the database and the cache layer and reports 200 "ok" or
// 503 "degraded"
func (handler *healthHandler) Check(ctx *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		DB:        "ok",
		Cache:     "ok",
		Timestamp: time.Now().UTC(),
	}

	if err := handler.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		response.DB = "error"
		response.Status = "degraded"
	}

	handler.cache.Set("health:ping", "pong", time.Minute)
	if value, found := handler.cache.Get("health:ping"); !found || value != "pong" {
		response.Cache = "error"
		response.Status = "degraded"
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, response)
}
