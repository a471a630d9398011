package leave

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	leave := r.Group("/leave")
	leave.Use(middleware.AuthMiddleware())
	{
		leave.POST("", rbac.RequirePermission(rbacService, "leave.create"), h.Submit)
		leave.GET("/me", h.GetMyRequests)
		leave.GET("/pending", rbac.RequirePermission(rbacService, "leave.view_all"), h.GetPending)
		leave.POST("/:id/approve", rbac.RequirePermission(rbacService, "leave.approve"), h.Approve)
		leave.POST("/:id/reject", rbac.RequirePermission(rbacService, "leave.approve"), h.Reject)
	}
}
