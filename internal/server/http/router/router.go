package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/ikanmart/internal/server/http/handlers"
	"github.com/polkiloo/ikanmart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	statusHandler := handlers.NewStatusHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	buyer := api.Group("/buyers/:buyerID")
	buyer.GET("/cart", cartHandler.List)
	buyer.POST("/cart", cartHandler.Add)
	buyer.DELETE("/cart", cartHandler.Clear)
	buyer.POST("/cart/validate", cartHandler.Validate)
	buyer.POST("/orders", orderHandler.Place)
	buyer.GET("/orders", orderHandler.List)

	order := api.Group("/orders/:orderID")
	order.GET("", orderHandler.Get)
	order.GET("/status", statusHandler.Get)
	order.POST("/status", statusHandler.Update)
	order.POST("/cancel", statusHandler.Cancel)
	order.POST("/rating", statusHandler.Rate)

	return engine
}
