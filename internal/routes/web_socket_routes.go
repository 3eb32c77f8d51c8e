package routes

import (
	"github.com/gin-gonic/gin"

	"recolecta/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, h *controllers.Handler) {
	ws := r.Group("/ws")
	ws.Use(h.Tokens.RequireAuth())
	{
		ws.GET("/requests", h.StreamRequests)
	}
}
