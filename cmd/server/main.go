package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/config"
	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/handlers"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/security"
	"github.com/forhay123/haybee-edu-sub005/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	termRepo := repository.NewTermRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	rescheduleRepo := repository.NewRescheduleRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	arbiter := service.NewAccessArbiter(assessmentRepo, progressRepo, templateRepo, subjectRepo, rescheduleRepo)
	materializer := service.NewScheduleMaterializer(templateRepo, scheduleRepo, progressRepo, studentRepo)
	gate := service.NewPeriodDependencyGate(progressRepo)
	dashboardService := service.NewDashboardService(scheduleRepo, progressRepo, gate, arbiter)
	completionService := service.NewCompletionService(progressRepo, assessmentRepo, arbiter)
	rescheduleService := service.NewRescheduleService(rescheduleRepo, assessmentRepo, studentRepo, emailService)
	sweeper := service.NewExpirySweeper(progressRepo, rescheduleRepo)

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	loginLimiter := security.NewRateLimiter(10, time.Minute)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, csrf, loginLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf)
	oauthHandler := handlers.NewOAuthHandler(authService, csrf, googleOAuth, cfg.OAuthRedirectBaseURL)
	accessHandler := handlers.NewAccessHandler(arbiter, completionService)
	scheduleHandler := handlers.NewScheduleHandler(dashboardService, materializer, termRepo, studentRepo)
	termHandler := handlers.NewTermHandler(termRepo)
	templateHandler := handlers.NewTemplateHandler(templateRepo)
	rescheduleHandler := handlers.NewRescheduleHandler(rescheduleService)
	healthHandler := handlers.NewHealthHandler(db)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/google/start", oauthHandler.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", oauthHandler.OAuthCallback)

	// Student routes
	mux.HandleFunc("GET /api/assessments/{id}/access", middleware.RequireAuth(accessHandler.CheckAccess))
	mux.HandleFunc("POST /api/assessments/{id}/submissions", middleware.RequireAuth(middleware.CSRFProtect(accessHandler.Submit)))
	mux.HandleFunc("GET /api/schedule/day", middleware.RequireAuth(scheduleHandler.Day))
	mux.HandleFunc("GET /api/schedule/blocked", middleware.RequireAuth(scheduleHandler.Blocked))

	// Staff routes
	mux.HandleFunc("POST /api/schedule/materialize", middleware.RequireStaff(middleware.CSRFProtect(scheduleHandler.Materialize)))
	mux.HandleFunc("GET /api/terms", middleware.RequireStaff(termHandler.List))
	mux.HandleFunc("POST /api/terms", middleware.RequireStaff(middleware.CSRFProtect(termHandler.Create)))
	mux.HandleFunc("GET /api/terms/{id}", middleware.RequireStaff(termHandler.Get))
	mux.HandleFunc("POST /api/terms/{id}/activate", middleware.RequireStaff(middleware.CSRFProtect(termHandler.Activate)))
	mux.HandleFunc("DELETE /api/terms/{id}", middleware.RequireStaff(middleware.CSRFProtect(termHandler.Delete)))
	mux.HandleFunc("GET /api/templates", middleware.RequireStaff(templateHandler.List))
	mux.HandleFunc("POST /api/templates", middleware.RequireStaff(middleware.CSRFProtect(templateHandler.Create)))
	mux.HandleFunc("GET /api/templates/{id}", middleware.RequireStaff(templateHandler.Get))
	mux.HandleFunc("PUT /api/templates/{id}", middleware.RequireStaff(middleware.CSRFProtect(templateHandler.Update)))
	mux.HandleFunc("DELETE /api/templates/{id}", middleware.RequireStaff(middleware.CSRFProtect(templateHandler.Delete)))
	mux.HandleFunc("POST /api/reschedules", middleware.RequireStaff(middleware.CSRFProtect(rescheduleHandler.Create)))
	mux.HandleFunc("POST /api/reschedules/{id}/cancel", middleware.RequireStaff(middleware.CSRFProtect(rescheduleHandler.Cancel)))
	mux.HandleFunc("GET /api/students/{id}/reschedules", middleware.RequireStaff(rescheduleHandler.ListForStudent))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background maintenance
	go cleanupExpiredSessions(authService)
	go sweepExpiredWindows(sweeper)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}

// sweepExpiredWindows periodically marks overdue lessons incomplete
// once their grace period has passed without a submission.
func sweepExpiredWindows(sweeper *service.ExpirySweeper) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		count, err := sweeper.MarkOverdueIncomplete(time.Now())
		if err != nil {
			log.Printf("Error sweeping expired windows: %v", err)
			continue
		}
		if count > 0 {
			log.Printf("Marked %d overdue lessons incomplete", count)
		}
	}
}
