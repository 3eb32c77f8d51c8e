package routes

import (
	"io"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"recolecta/internal/controllers"
	"recolecta/internal/metrics"
	"recolecta/internal/middleware"
)

// SetupRouter wires every route group onto a fresh engine. Request logs go
// to logWriter when it is non-nil.
func SetupRouter(h *controllers.Handler, m *metrics.Manager, logWriter io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if logWriter != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(logWriter),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/metrics"}),
		))
	}
	r.Use(middleware.CORS())
	r.Use(m.Middleware())

	AuthRoutes(r, h)
	LocalityRoutes(r)
	RequestRoutes(r, h)
	ReportRoutes(r, h)
	CollectionRoutes(r, h)
	AdminRoutes(r, h)
	WebSocketRoutes(r, h)

	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r
}
