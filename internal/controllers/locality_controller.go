package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recolecta/internal/catalog"
)

// ListLocalities serves the locality catalog as a GeoJSON FeatureCollection.
func ListLocalities(c *gin.Context) {
	raw, err := catalog.MarshalGeoJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode localities"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", raw)
}
