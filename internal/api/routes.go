package api

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/card-ledger/backend/internal/api/handlers"
	"github.com/codyseavey/card-ledger/backend/internal/metrics"
	"github.com/codyseavey/card-ledger/backend/internal/services"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

func SetupRouter(loader *services.SnapshotLoader, registry *services.ViewRegistry, reconciler *services.Reconciler, replacer *services.FullReplacer, st store.Store) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))
	router.Use(metricsMiddleware())

	// Initialize handlers
	recordHandler := handlers.NewRecordHandler(loader, st, replacer)
	viewHandler := handlers.NewViewHandler(loader, registry, reconciler, st)
	variantHandler := handlers.NewVariantHandler(loader)
	exportHandler := handlers.NewExportHandler(loader)

	// API routes
	api := router.Group("/api")
	{
		records := api.Group("/records")
		{
			records.GET("", recordHandler.ListRecords)
			records.POST("", recordHandler.CreateRecord)
			records.POST("/replace", recordHandler.ReplaceAll)
		}

		views := api.Group("/views")
		{
			views.POST("", viewHandler.CreateView)
			views.POST("/:token/reconcile", viewHandler.Reconcile)
		}

		variants := api.Group("/variants")
		{
			variants.GET("", variantHandler.ListVariants)
			variants.GET("/stats", variantHandler.VariantStats)
		}

		api.GET("/export", exportHandler.ExportCSV)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// metricsMiddleware records request counts and latency per route.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
