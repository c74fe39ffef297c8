package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unicampus/internal/adapters/http/middleware"
	"unicampus/internal/adapters/http/routes"
	"unicampus/internal/adapters/persistence/memory"
	"unicampus/internal/adapters/persistence/models"
	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/adapters/validator"
	"unicampus/internal/config"
	"unicampus/internal/core/authz"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"
	"unicampus/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	_ "unicampus/docs" // Swagger docs
)

// @title UniCampus Identity API
// @version 1.0
// @description Registration, login, token refresh and token validation.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg, "identity")

	if len(cfg.JWT.Secret) == 0 {
		log.Fatal("❌ JWT_SECRET is required to issue tokens")
	}
	codec, err := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatalf("❌ Failed to create token codec: %v", err)
	}

	var (
		db         *gorm.DB
		principals repositories.PrincipalRepository
	)
	if cfg.Database.InMemory() {
		log.Warn("⚠️ DB_DRIVER=memory: principals live in process memory and are lost on exit")
		principals = memory.NewPrincipalRepository()
	} else {
		// Connect to database
		db, err = config.ConnectDatabase(cfg, log)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer config.CloseDatabase(db)

		if err := models.AutoMigrateIdentity(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.Info("✅ Database migration completed")

		principals = repositories.NewPrincipalRepository(db)
	}
	hasher := password.NewHasher(password.DefaultCost)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.NewSeeder(principals, hasher, cfg.Seed, log).Run(seedCtx); err != nil {
		log.Warnf("⚠️ Failed to seed admin: %v", err)
	}
	cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	authService := services.NewAuthService(
		principals,
		codec,
		hasher,
		services.TokenSettings{AccessTTL: cfg.JWT.AccessTTL, RefreshTTL: cfg.JWT.RefreshTTL},
		m,
		log.WithField("component", "auth"),
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "UniCampus Identity v1.0",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	middleware.Setup(app, cfg)

	routes.SetupIdentity(app, routes.IdentityDeps{
		Config:    cfg,
		DB:        db,
		Auth:      authService,
		Users:     services.NewUserService(principals),
		Validator: validator.NewLocal(codec, m),
		Gate:      authz.NewGate(m),
		Metrics:   m,
	})

	go gracefulShutdown(app, log)

	port := cfg.ListenPort("8081")
	log.Infof("🚀 Identity service starting on port %s [MODE: %s]", port, cfg.AppMode)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *logrus.Entry) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("❌ Error during shutdown: %v", err)
	}
	log.Info("✅ Server stopped gracefully")
}
