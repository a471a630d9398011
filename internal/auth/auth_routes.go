package auth

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		// Brute-force protection on the credential endpoint only.
		authGroup.POST("/login", middleware.RateLimitByIP(5, 10), h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/change-password", middleware.AuthMiddleware(), h.ChangePassword)
	}
}
