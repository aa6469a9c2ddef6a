package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kneilands/Papertrail/internal/config"
	"github.com/Kneilands/Papertrail/internal/database"
	"github.com/Kneilands/Papertrail/internal/database/migration"
	"github.com/Kneilands/Papertrail/internal/extract"
	handlers "github.com/Kneilands/Papertrail/internal/http/handler"
	"github.com/Kneilands/Papertrail/internal/http/middleware"
	"github.com/Kneilands/Papertrail/internal/otel"
	"github.com/Kneilands/Papertrail/internal/repository/postgres"
	"github.com/Kneilands/Papertrail/internal/service"
	"github.com/Kneilands/Papertrail/internal/storage"
	"github.com/Kneilands/Papertrail/internal/summarize"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing; a failed exporter degrades to noop
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Apply schema and demo data on a fresh database
	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	if err := migration.SeedDemo(ctx, db, time.UTC); err != nil {
		log.Fatalf("failed to seed demo documents: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Summarization is optional; without a credential the upload pipeline
	// degrades to a placeholder message instead of calling out.
	var summarizer summarize.Summarizer
	if cfg.HuggingFace.APIKey != "" {
		summarizer = summarize.NewHuggingFace(cfg.HuggingFace)
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo, extract.NewPDF(), summarizer)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Tracing middleware creates a server span per request
	app.Use(otelfiber.Middleware())

	// Request counter metrics plus a /metrics scrape endpoint
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, docSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
