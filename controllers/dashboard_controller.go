package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// DashboardController serves the post-login summary.
type DashboardController struct {
	dashboard *services.DashboardService
}

// NewDashboardController creates a DashboardController.
func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// Summary returns site totals, recent content and the caller's counts.
func (d *DashboardController) Summary(ctx *gin.Context) {
	summary, err := d.dashboard.Summary(middleware.CurrentUser(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, summary)
}
