package user

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetMe)
		users.GET("", rbac.RequirePermission(rbacService, "employees.read"), h.GetAll)
		users.GET("/options", rbac.RequirePermission(rbacService, "employees.read"), h.GetOptions)
		users.GET("/:id", rbac.RequirePermission(rbacService, "employees.read"), h.GetByID)
		users.POST("", rbac.RequirePermission(rbacService, "employees.create"), h.Register)
		users.PUT("/:id", rbac.RequirePermission(rbacService, "employees.update"), h.Update)
		users.PATCH("/:id/status", rbac.RequirePermission(rbacService, "employees.delete"), h.ToggleStatus)
	}
}
