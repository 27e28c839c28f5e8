package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/orders"
)

// DashboardHandler defines the interface for the staff panel statistics
type DashboardHandler interface {
	Stats(ctx *gin.Context)
}

type dashboardHandler struct {
	dashboardService orders.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService orders.DashboardService) DashboardHandler {
	return &dashboardHandler{dashboardService: dashboardService}
}

// Stats returns the cached panel counters for today
func (handler *dashboardHandler) Stats(ctx *gin.Context) {
	stats, err := handler.dashboardService.Stats(ctx, time.Now().UTC())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: "could not compute dashboard stats"})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
