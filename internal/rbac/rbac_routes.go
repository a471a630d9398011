package rbac

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, service Service) {
	roles := r.Group("/roles")
	roles.Use(middleware.AuthMiddleware())
	{
		roles.GET("", RequirePermission(service, "users.manage_roles"), h.ListRoles)
		roles.POST("/assign", RequirePermission(service, "users.manage_roles"), h.AssignRole)
		roles.POST("/revoke", RequirePermission(service, "users.manage_roles"), h.RevokeRole)
	}

	permissions := r.Group("/permissions")
	permissions.Use(middleware.AuthMiddleware())
	{
		permissions.GET("", RequirePermission(service, "users.manage_roles"), h.ListPermissions)
	}
}
