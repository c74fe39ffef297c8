package main

import (
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
	"unicampus/internal/jobs"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	_ "unicampus/docs" // Swagger docs
)

// @title UniCampus Course API
// @version 1.0
// @description Course catalogue and grade book. Tokens are checked locally or by the identity service.

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
	log := config.NewLogger(cfg, "courses")

	// The codec is only needed for local validation
	var codec *jwt.Codec
	if len(cfg.JWT.Secret) > 0 {
		codec, err = jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			log.Fatalf("❌ Failed to create token codec: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	tokenValidator, err := validator.New(cfg.Validator, codec, m)
	if err != nil {
		log.Fatalf("❌ Failed to create token validator: %v", err)
	}
	log.WithField("strategy", tokenValidator.Strategy()).Info("🔐 Token validation configured")

	var (
		db      *gorm.DB
		courses repositories.CourseRepository
		grades  repositories.GradeRepository
	)
	if cfg.Database.InMemory() {
		log.Warn("⚠️ DB_DRIVER=memory: courses and grades live in process memory and are lost on exit")
		courses, grades = memory.NewCourseRepository(), memory.NewGradeRepository()
	} else {
		// Connect to database
		db, err = config.ConnectDatabase(cfg, log)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer config.CloseDatabase(db)

		if err := models.AutoMigrateCourses(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.Info("✅ Database migration completed")

		courses, grades = repositories.NewCourseRepository(db), repositories.NewGradeRepository(db)
	}

	// Watch the issuer when every request depends on it
	if cfg.Validator.Strategy == config.StrategyDelegated {
		probe := jobs.NewIssuerProbe(cfg.Validator.HealthURL, cfg.Validator.Timeout, cfg.Validator.ProbeSchedule, m, log.WithField("component", "issuer-probe"))
		if err := probe.Start(); err != nil {
			log.Fatalf("❌ Failed to start issuer probe: %v", err)
		}
		defer probe.Stop()
	}

	gate := authz.NewGate(m)
	courseService := services.NewCourseService(courses, tokenValidator, gate, log.WithField("component", "courses"))
	gradeService := services.NewGradeService(grades, tokenValidator, gate, log.WithField("component", "grades"))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "UniCampus Courses v1.0",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	middleware.Setup(app, cfg)

	routes.SetupCourses(app, routes.CourseDeps{
		Config:  cfg,
		DB:      db,
		Courses: courseService,
		Grades:  gradeService,
		Metrics: m,
	})

	go gracefulShutdown(app, log)

	port := cfg.ListenPort("8082")
	log.Infof("🚀 Course service starting on port %s [MODE: %s]", port, cfg.AppMode)
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
