package routes

import (
	"github.com/gin-gonic/gin"

	"recolecta/internal/controllers"
)

func AuthRoutes(r *gin.Engine, h *controllers.Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Tokens.RequireAuth(), h.Logout)
		auth.GET("/session", h.Tokens.RequireAuth(), h.Session)
	}
}

func LocalityRoutes(r *gin.Engine) {
	r.GET("/localities", controllers.ListLocalities)
}
