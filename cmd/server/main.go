package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"edupay-backend/internal/auth"
	"edupay-backend/internal/cache"
	"edupay-backend/internal/config"
	"edupay-backend/internal/database"
	"edupay-backend/internal/db"
	"edupay-backend/internal/events"
	"edupay-backend/internal/handlers"
	"edupay-backend/internal/health"
	h "edupay-backend/internal/http"
	"edupay-backend/internal/middleware"
	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
	"edupay-backend/internal/services"
)

// seedAdminUser creates the first admin account when the users table is
// empty, so a fresh install can log in.
func seedAdminUser(ctx context.Context, userRepo *repositories.UserRepository) {
	users, err := userRepo.List(ctx)
	if err != nil || len(users) > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@edupay.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("[Seed] ADMIN_PASSWORD not set, using default; change it after first login")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("[Seed] failed to hash admin password: %v", err)
		return
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Printf("[Seed] failed to create admin user: %v", err)
		return
	}
	log.Printf("[Seed] Created initial admin user %s", email)
}

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (responses will be computed fresh)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager and health checker
	jwtManager := auth.NewJWTManager(cfg)
	healthChecker := health.NewHealthChecker(pool)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	studentRepo := repositories.NewStudentRepository(pool)
	structureRepo := repositories.NewFeeStructureRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	activityLogRepo := repositories.NewActivityLogRepository(pool)
	settingRepo := repositories.NewSystemSettingRepository(pool)

	seedAdminUser(ctx, userRepo)

	// WebSocket hub for live dashboard updates
	hub := events.NewHub()

	// Initialize services
	activityService := services.NewActivityService(activityLogRepo)
	publisher := services.NewHubPublisher(hub)
	sessionService := services.NewSessionService(settingRepo, cfg.School.DefaultSession)
	userService := services.NewUserService(userRepo, jwtManager, activityService)
	studentService := services.NewStudentService(studentRepo, structureRepo, activityService, publisher)
	structureService := services.NewFeeStructureService(structureRepo, activityService, publisher)
	ledgerStore := services.NewPgLedgerStore(pool, studentRepo, paymentRepo)
	collectionService := services.NewCollectionService(
		studentRepo,
		structureRepo,
		ledgerStore,
		publisher,
		activityService,
		services.RedisInvalidator{},
	)
	dashboardService := services.NewDashboardService(studentRepo, structureRepo, paymentRepo)
	reportService := services.NewReportService(studentRepo, structureRepo, paymentRepo, cfg.School.Name)
	insightService := services.NewInsightService(studentRepo, structureRepo, cfg.Gemini.APIKey, cfg.Gemini.Model)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	studentHandler := handlers.NewStudentHandler(studentService, collectionService, sessionService)
	structureHandler := handlers.NewFeeStructureHandler(structureService, sessionService)
	paymentHandler := handlers.NewPaymentHandler(collectionService, paymentRepo, reportService, sessionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, sessionService)
	reportHandler := handlers.NewReportHandler(reportService, sessionService)
	insightHandler := handlers.NewInsightHandler(insightService, sessionService)
	activityLogHandler := handlers.NewActivityLogHandler(activityService)
	settingHandler := handlers.NewSystemSettingHandler(settingRepo, sessionService)
	systemHandler := handlers.NewSystemHandler(hub)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		userHandler,
		studentHandler,
		structureHandler,
		paymentHandler,
		dashboardHandler,
		reportHandler,
		insightHandler,
		activityLogHandler,
		settingHandler,
		systemHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	// Wrap with panic recovery, metrics and CORS middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s (session: %s)", addr, sessionService.ActiveSession(context.Background()))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
