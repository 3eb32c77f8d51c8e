package routes

import (
	"github.com/gin-gonic/gin"

	"recolecta/internal/controllers"
	"recolecta/internal/models"
)

// CollectionRoutes is the route-planning view used by collection companies.
func CollectionRoutes(r *gin.Engine, h *controllers.Handler) {
	collection := r.Group("/routes")
	collection.Use(h.Tokens.RequireAuthWithRole(models.RoleCompany, models.RoleAdmin))
	{
		collection.GET("/pending", h.ListPending)
		collection.GET("/collectors", h.ListCollectors)
		collection.POST("/assign", h.AssignCollector)
	}
}
