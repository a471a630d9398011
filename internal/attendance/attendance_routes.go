package attendance

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.POST("/clock-in", h.ClockIn)
		attendance.POST("/clock-out", h.ClockOut)
		attendance.POST("/break/start", h.StartBreak)
		attendance.POST("/break/end", h.EndBreak)
		attendance.GET("/me", h.GetMyHistory)
		attendance.GET("", rbac.RequirePermission(rbacService, "attendance.view_all"), h.GetByDate)
	}
}
