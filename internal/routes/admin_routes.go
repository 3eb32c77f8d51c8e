package routes

import (
	"github.com/gin-gonic/gin"

	"recolecta/internal/controllers"
	"recolecta/internal/models"
)

func AdminRoutes(r *gin.Engine, h *controllers.Handler) {
	admin := r.Group("/admin")
	admin.Use(h.Tokens.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/:id/role", h.UpdateUserRole)
		admin.PATCH("/requests/:id/points", h.SetPoints)
		admin.POST("/fixtures/users", h.SeedUsers)
		admin.POST("/fixtures/requests", h.SeedRequests)
	}
}
