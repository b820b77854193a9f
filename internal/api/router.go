package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/RustMQ/rusted-iron/internal/api/handlers"
	"github.com/RustMQ/rusted-iron/internal/api/middleware"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles what the router dispatches to
type Services struct {
	Queues   handlers.QueueService
	Messages handlers.MessageService
	Statuses handlers.StatusService
	Store    Pinger
}

// Router manages API routing and handlers
type Router struct {
	engine         *gin.Engine
	logger         *slog.Logger
	store          Pinger
	queueHandler   *handlers.QueueHandler
	messageHandler *handlers.MessageHandler
}

// NewRouter creates a new API router with all handlers initialized
func NewRouter(svc Services, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	router := &Router{
		engine:         gin.New(),
		logger:         logger.With("component", "http"),
		store:          svc.Store,
		queueHandler:   handlers.NewQueueHandler(svc.Queues),
		messageHandler: handlers.NewMessageHandler(svc.Messages, svc.Statuses),
	}

	router.setupMiddleware()
	router.setupRoutes()

	return router
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.RequestIDMiddleware())
	r.engine.Use(middleware.LoggingMiddleware(r.logger))
	r.engine.Use(middleware.ErrorHandlerMiddleware(r.logger))
	r.engine.Use(gin.Recovery())
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health)

	// Swagger UI at /swagger/index.html
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.engine.Group("/api/v1")
	{
		queues := v1.Group("/queues")
		{
			queues.GET("", r.queueHandler.ListQueues)
			queues.PUT("/:name", r.queueHandler.CreateQueue)
			queues.GET("/:name", r.queueHandler.GetQueue)
			queues.PATCH("/:name", r.queueHandler.PatchQueue)
			queues.DELETE("/:name", r.queueHandler.DeleteQueue)

			queues.POST("/:name/subscribers", r.queueHandler.AddSubscribers)
			queues.PUT("/:name/subscribers", r.queueHandler.ReplaceSubscribers)
			queues.DELETE("/:name/subscribers", r.queueHandler.DeleteSubscribers)

			queues.POST("/:name/messages", r.messageHandler.PostMessages)
			queues.GET("/:name/messages", r.messageHandler.PeekMessages)
			queues.DELETE("/:name/messages", r.messageHandler.DeleteMessages)
			queues.POST("/:name/webhook", r.messageHandler.PostWebhook)
			queues.POST("/:name/reservations", r.messageHandler.ReserveMessages)

			queues.GET("/:name/messages/:id", r.messageHandler.GetMessage)
			queues.DELETE("/:name/messages/:id", r.messageHandler.DeleteMessage)
			queues.POST("/:name/messages/:id/touch", r.messageHandler.TouchMessage)
			queues.POST("/:name/messages/:id/release", r.messageHandler.ReleaseMessage)
			queues.GET("/:name/messages/:id/subscribers", r.messageHandler.GetPushStatuses)
		}
	}
}

func (r *Router) health(c *gin.Context) {
	if r.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
