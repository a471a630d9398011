package payroll

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.POST("/generate", rbac.RequirePermission(rbacService, "employees.update_salary"), h.Generate)
		payroll.GET("", rbac.RequirePermission(rbacService, "employees.view_salary"), h.GetByPeriod)
		payroll.GET("/me", h.GetMyPayslips)
		payroll.GET("/:id", rbac.RequirePermission(rbacService, "employees.view_salary"), h.GetByID)
		payroll.PUT("/:id", rbac.RequirePermission(rbacService, "employees.update_salary"), h.Update)
	}
}
