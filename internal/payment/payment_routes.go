package payment

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("", rbac.RequirePermission(rbacService, "payments.create"), h.Create)
		payments.POST("/disburse", rbac.RequirePermission(rbacService, "payments.mpesa"), h.Disburse)
		payments.GET("", rbac.RequirePermission(rbacService, "payments.view_all"), h.GetAll)
		payments.GET("/me", h.GetMine)
		payments.GET("/:id", rbac.RequirePermission(rbacService, "payments.read"), h.GetByID)
		payments.GET("/:id/status", rbac.RequirePermission(rbacService, "payments.read"), h.QueryStatus)
		payments.POST("/:id/approve", rbac.RequirePermission(rbacService, "payments.approve"), h.Approve)
		payments.POST("/:id/cancel", rbac.RequirePermission(rbacService, "payments.approve"), h.Cancel)
	}

	// Gateway callbacks are unauthenticated; the gateway cannot send a JWT.
	callbacks := r.Group("/mpesa")
	{
		callbacks.POST("/callback", h.HandleCallback)
		callbacks.POST("/timeout", h.HandleTimeout)
		callbacks.POST("/result", h.HandleResult)
	}
}
