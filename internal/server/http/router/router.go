package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/driverdesk/internal/server/http/handlers"
	"github.com/polkiloo/driverdesk/internal/server/http/middleware"
)

// Event streams must be flushed unbuffered.
const eventsPathPattern = `^/api/drivers/[^/]+/events$`

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DispatchFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{eventsPathPattern})))
	engine.SetHTMLTemplate(handlers.Templates())

	pageHandler := handlers.NewPageHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	eventsHandler := handlers.NewEventsHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	pages := engine.Group("/drivers/:id")
	pages.GET("", pageHandler.Show)
	pages.POST("/orders/:orderID/accept", pageHandler.Accept)
	pages.POST("/orders/:orderID/reject", pageHandler.Reject)

	api := engine.Group("/api/drivers/:id")
	api.GET("/orders", orderHandler.List)
	api.POST("/orders/:orderID/accept", orderHandler.Accept)
	api.POST("/orders/:orderID/reject", orderHandler.Reject)
	api.GET("/events", eventsHandler.Stream)

	return engine
}
