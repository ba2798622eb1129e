package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, logger *middleware.Logger, ops *api.OpsHandler) {
	setupMiddleware(engine, logger)
	setupRoutes(engine, ops)
}

func setupMiddleware(engine *gin.Engine, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, ops *api.OpsHandler) {
	addRoutes(&engine.RouterGroup, []route{
		{Method: http.MethodGet, Path: "/healthz", Handler: ops.Healthz},
		{Method: http.MethodGet, Path: "/metrics", Handler: ops.Metrics()},
	})

	opsGroup := engine.Group("/ops")
	addRoutes(opsGroup, []route{
		{Method: http.MethodPost, Path: "/holds/release", Handler: ops.ReleaseHolds},
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		default:
			g.Handle(r.Method, r.Path, r.Handler)
		}
	}
}
