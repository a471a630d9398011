package employee

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	profiles := r.Group("/employees")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("/me/profile", h.GetMyProfile)
		profiles.PUT("/me/profile", h.UpdateMyProfile)
		profiles.GET("/:userId/profile", rbac.RequirePermission(rbacService, "employees.read"), h.GetProfile)
		profiles.POST("/:userId/review", rbac.RequirePermission(rbacService, "employees.update"), h.RecordReview)
	}
}
