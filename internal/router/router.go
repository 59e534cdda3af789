// Package router wires the HTTP endpoints to their handlers and
// middleware.  Read endpoints sit behind the redis response cache;
// mutating endpoints require a bearer token.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dentexpo/expo-manager/internal/config"
	"github.com/dentexpo/expo-manager/internal/handler"
	"github.com/dentexpo/expo-manager/internal/middleware"
)

// Register attaches every route to the Echo instance.
func Register(e *echo.Echo, h *handler.Handler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", h.Health)

	e.POST("/v1/auth/register", h.Register)
	e.POST("/v1/auth/login", h.Login)

	// Read endpoints: cacheable, no auth required.  The cache key
	// includes the query string so filters get their own entries.
	read := e.Group("/v1")
	read.Use(middleware.ResponseCache(cacheCfg, rdb))
	read.GET("/products", h.ListProducts)
	read.GET("/products/:id", h.GetProduct)
	read.GET("/exhibitions", h.ListExhibitions)
	read.GET("/exhibitions/:id", h.GetExhibition)
	read.GET("/records", h.ListRecords)
	read.GET("/records/:id", h.GetRecord)
	read.GET("/stats/products", h.ProductStats)
	read.GET("/stats/exhibitions", h.ExhibitionStats)
	read.GET("/stats/records", h.RecordStats)
	read.GET("/stats/participation", h.ParticipationStats)
	read.GET("/charts/product-models", h.ChartProductModels)
	read.GET("/charts/product-colors", h.ChartProductColors)
	read.GET("/charts/record-status", h.ChartRecordStatus)
	read.GET("/charts/exhibitions-monthly", h.ChartExhibitionsMonthly)
	read.GET("/charts/participation", h.ChartParticipation)

	// Mutating endpoints and exports require a valid access token.
	write := e.Group("/v1")
	write.Use(middleware.JWTAuth(h.Auth.JWTSecret))
	write.POST("/products", h.CreateProduct)
	write.POST("/products/batch", h.CreateProductBatch)
	write.PUT("/products/:id", h.UpdateProduct)
	write.DELETE("/products/:id", h.DeleteProduct)
	write.POST("/exhibitions", h.CreateExhibition)
	write.PUT("/exhibitions/:id", h.UpdateExhibition)
	write.DELETE("/exhibitions/:id", h.DeleteExhibition)
	write.POST("/records", h.CreateRecord)
	write.PATCH("/records/:id/status", h.UpdateRecordStatus)
	write.DELETE("/records/:id", h.DeleteRecord)
	write.POST("/records/refresh", h.RefreshRecordStatuses)
	write.POST("/maintenance/cleanup", h.CleanupRecords)
	write.GET("/export/:entity", h.Export)
	write.GET("/export/snapshot", h.ExportSnapshot)
	write.POST("/export/:entity/async", h.ExportAsync)
}
