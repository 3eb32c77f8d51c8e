package routes

import (
	"github.com/gin-gonic/gin"

	"recolecta/internal/controllers"
)

func RequestRoutes(r *gin.Engine, h *controllers.Handler) {
	requests := r.Group("/requests")
	requests.Use(h.Tokens.RequireAuth())
	{
		requests.POST("", h.ScheduleRequest)
		requests.GET("", h.ListRequests)
		requests.POST("/:id/cancel", h.CancelRequest)
	}
}

func ReportRoutes(r *gin.Engine, h *controllers.Handler) {
	reports := r.Group("/reports")
	reports.Use(h.Tokens.RequireAuth())
	{
		reports.GET("", h.Report)
		reports.GET("/export", h.ExportReport)
	}
}
