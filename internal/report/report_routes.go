package report

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware(), rbac.RequirePermission(rbacService, "reports.view"))
	{
		reports.GET("/payments", h.PaymentStats)
		reports.GET("/attendance", h.AttendanceSummary)
		reports.GET("/leave", h.LeaveSummary)
	}
}
