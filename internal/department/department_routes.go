package department

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.GET("", rbac.RequirePermission(rbacService, "departments.read"), h.GetAll)
		departments.GET("/:id", rbac.RequirePermission(rbacService, "departments.read"), h.GetByID)
		departments.POST("", rbac.RequirePermission(rbacService, "departments.create"), h.Create)
		departments.PUT("/:id", rbac.RequirePermission(rbacService, "departments.update"), h.Update)
	}
}
