// server.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger with config
	logx.SetLevel(logx.ParseLevel(cfg.Server.LogLevel))
	logx.SetFormat(cfg.Server.LogFormat)

	logx.Info("🚀 Starting RecruitDesk API Server...")
	logx.Infof("Environment: %s", cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Dependency Container
	container := NewContainer(ctx, cfg)
	defer container.Cleanup()

	// 4. Start background services
	container.StartBackgroundServices(ctx)

	// 5. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "RecruitDesk API",
		DisableStartupMessage: true,
		ErrorHandler:          httpx.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:             cfg.Server.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	// 6. Global Middleware
	setupMiddleware(app, cfg)

	// 7. Health, Info & Metrics Endpoints
	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 8. Register Routes
	registerRoutes(app, container)

	// 9. 404 Handler
	app.Use(httpx.NotFound)

	// 10. Print Route Summary
	printRouteSummary()

	// 11. Start Server with Graceful Shutdown
	startServer(app, cfg, cancel)
}

// ============================================================================
// Setup Functions
// ============================================================================

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	// Panic recovery
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	// Request ID
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return "req-" + kernel.GenerateID()
		},
	}))

	// CORS
	corsOrigins := "*"
	if len(cfg.Server.CORSOrigins) > 0 {
		corsOrigins = strings.Join(cfg.Server.CORSOrigins, ",")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		AllowCredentials: corsOrigins != "*",
		ExposeHeaders:    "X-Request-ID, Content-Disposition",
	}))

	// Request logger
	logFormat := "${time} | ${status} | ${latency} | ${method} ${path}"
	if cfg.IsDevelopment() {
		logFormat += " | ${ip} | ${reqHeader:X-Request-ID}\n"
	} else {
		logFormat += "\n"
	}

	app.Use(logger.New(logger.Config{
		Format:     logFormat,
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

func registerRoutes(app *fiber.App, container *Container) {
	logx.Info("📝 Registering routes...")

	api := app.Group("/api/v1")

	// Access Control: /api/v1/access/*
	container.AccessHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Access routes registered")

	// Resume Intake: /api/v1/resumes/*
	container.ResumeHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Resume routes registered")

	// Team & Hierarchy: /api/v1/team/*
	container.TeamHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Team routes registered")

	// Invitations: /api/v1/invitations/*
	container.InvitationHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Invitation routes registered")

	logx.Info("✅ All routes registered")
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler returns a health check handler
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":      "healthy",
			"service":     "recruitdesk-api",
			"environment": container.Config.Environment,
			"timestamp":   time.Now().Unix(),
		}

		if err := container.DB.PingContext(c.Context()); err != nil {
			health["db"] = "unhealthy"
			health["db_error"] = err.Error()
			health["status"] = "degraded"
		} else {
			health["db"] = "healthy"
		}

		if container.Redis != nil {
			if _, err := container.Redis.Ping(c.Context()).Result(); err != nil {
				health["redis"] = "unhealthy"
				health["redis_error"] = err.Error()
				health["status"] = "degraded"
			} else {
				health["redis"] = "healthy"
			}
		}

		// Check storage (optional - can be slow)
		if c.QueryBool("check_storage", false) {
			if exists, err := container.FileSystem.Exists(c.Context(), ".health-check"); err != nil {
				health["storage"] = "unhealthy"
				health["storage_error"] = err.Error()
			} else {
				health["storage"] = "healthy"
				health["storage_accessible"] = exists
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

// infoHandler returns basic API information
func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "RecruitDesk API",
			"version":     "1.0.0",
			"description": "Recruitment agency back office: resume intake, team hierarchy and role-based access",
			"environment": cfg.Environment,
			"features": []string{
				"Resume upload with contact field extraction",
				"Role-based access control (admin, manager, recruiter)",
				"Team hierarchy with drag and drop reassignment",
				"Team invitations",
				"Hierarchy export to Excel",
			},
			"endpoints": fiber.Map{
				"health":  "/health",
				"metrics": "/metrics",
				"api":     "/api/v1",
			},
			"config": fiber.Map{
				"resume_max_upload_bytes":            cfg.Resume.MaxUploadBytes,
				"resume_ai_enrichment":               cfg.Resume.AIEnrichment,
				"storage_mode":                       cfg.Storage.Mode,
				"invitation_default_expiration_days": cfg.Auth.Invitation.DefaultExpirationDays,
			},
		})
	}
}

// ============================================================================
// Utility Functions
// ============================================================================

// printRouteSummary prints a summary of registered routes
func printRouteSummary() {
	logx.Info("📋 Route Summary:")
	logx.Info("   ├─ Health: /health")
	logx.Info("   ├─ Metrics: /metrics")
	logx.Info("   ├─ Access: /api/v1/access/*")
	logx.Info("   ├─ Resumes: /api/v1/resumes/*")
	logx.Info("   ├─ Team: /api/v1/team/*")
	logx.Info("   └─ Invitations: /api/v1/invitations/*")
}

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, cfg *config.Config, cancel context.CancelFunc) {
	port := fmt.Sprintf("%d", cfg.Server.Port)

	go func() {
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)
		logx.Infof("🔒 Environment: %s", cfg.Environment)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app, cancel)
}

// gracefulShutdown handles graceful server shutdown
func gracefulShutdown(app *fiber.App, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	// Cancel context to stop background services
	cancel()

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited successfully")
}
