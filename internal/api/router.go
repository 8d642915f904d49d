package api

import (
	"github.com/Mateuse/Gpu-Monitor/internal/api/handlers"
	"github.com/Mateuse/Gpu-Monitor/internal/api/middleware"
	"github.com/Mateuse/Gpu-Monitor/internal/api/ws"
	"github.com/Mateuse/Gpu-Monitor/internal/observability"
	"github.com/Mateuse/Gpu-Monitor/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router manages API routing and handlers
type Router struct {
	engine          *gin.Engine
	snapshotHandler *handlers.SnapshotHandler
	controlHandler  *handlers.ControlHandler
	statusHandler   *handlers.StatusHandler
	hub             *ws.Hub
	metrics         *observability.Metrics
}

// NewRouter creates a new API router with all handlers initialized
func NewRouter(ctrl handlers.Controller, repo storage.SnapshotRepository, hub *ws.Hub, metrics *observability.Metrics) *Router {
	router := &Router{
		engine:          gin.New(),
		snapshotHandler: handlers.NewSnapshotHandler(repo),
		controlHandler:  handlers.NewControlHandler(ctrl),
		statusHandler:   handlers.NewStatusHandler(ctrl, repo),
		hub:             hub,
		metrics:         metrics,
	}

	router.setupMiddleware()
	router.setupRoutes()

	return router
}

// setupMiddleware configures global middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.LoggingMiddleware())
	r.engine.Use(middleware.ErrorHandlerMiddleware())
	r.engine.Use(gin.Recovery())
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.metrics.Registry, promhttp.HandlerOpts{})))
	}

	if r.hub != nil {
		r.engine.GET("/ws", r.hub.HandleWebSocket())
	}

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/snapshot", r.snapshotHandler.GetSnapshot)
		v1.GET("/raw", r.snapshotHandler.GetRaw)
		v1.GET("/status", r.statusHandler.GetStatus)

		devices := v1.Group("/devices")
		{
			devices.GET("", r.snapshotHandler.ListDevices)
			devices.GET("/:index", r.snapshotHandler.GetDevice)
		}

		poller := v1.Group("/poller")
		{
			poller.POST("/start", r.controlHandler.Start)
			poller.POST("/stop", r.controlHandler.Stop)
			poller.POST("/refresh", r.controlHandler.Refresh)
			poller.PUT("/interval", r.controlHandler.SetInterval)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
