// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"foodsaver/internal/auth"
	"foodsaver/internal/config"
	"foodsaver/internal/middleware"
	"foodsaver/internal/models"
	"foodsaver/internal/repository"
	"foodsaver/internal/service"
	"foodsaver/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          storage.Store
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	donationRepo repository.DonationRepository
	userRepo     repository.UserRepository
	ledger       repository.ClaimLedger
	sessions     repository.SessionStore

	provider        *auth.Provider
	donationService *service.DonationService
	reportService   *service.ReportService
	sweeper         *service.Sweeper
}

// NewServer creates a new server instance, building the storage backend
// named by the configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	var store storage.Store
	var redisClient *redis.Client

	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := storage.NewRedisClient(cfg.RedisURL)
		if client == nil {
			return nil, fmt.Errorf("redis connection failed for %q", cfg.RedisURL)
		}
		redisClient = client
		store = storage.NewRedisStore(client, "foodsaver:")
	case config.BackendGorm:
		db, err := storage.OpenDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		gs, err := storage.NewGormStore(db)
		if err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		store = gs
	default:
		store = storage.NewMemoryStore()
	}

	return NewServerWithDeps(cfg, store, redisClient)
}

// NewServerWithDeps creates a Server using an already-initialized store.
// Use this in tests or when a bootstrap layer establishes the backend.
func NewServerWithDeps(cfg *config.Config, store storage.Store, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	donationRepo := repository.NewDonationRepository(store)
	userRepo := repository.NewUserRepository(store)
	ledger := repository.NewClaimLedger(store)
	sessions := repository.NewSessionStore(store)

	provider, err := auth.NewProvider(userRepo, sessions)
	if err != nil {
		return nil, fmt.Errorf("initializing identity provider: %w", err)
	}

	sweepInterval, err := time.ParseDuration(cfg.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL %q: %w", cfg.SweepInterval, err)
	}

	prom := fiberprometheus.New("foodsaver-api")

	server := &Server{
		config:          cfg,
		store:           store,
		redis:           redisClient,
		promMiddleware:  prom,
		donationRepo:    donationRepo,
		userRepo:        userRepo,
		ledger:          ledger,
		sessions:        sessions,
		provider:        provider,
		donationService: service.NewDonationService(donationRepo, ledger),
		reportService:   service.NewReportService(donationRepo, userRepo),
		sweeper:         service.NewSweeper(donationRepo, sweepInterval),
	}
	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing (span per request, X-Trace-ID response header)
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "FoodSaver Backend Metrics Dashboard",
	}))

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.SignUp)
	authGroup.Post("/signin", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "signin"), s.SignIn)
	authGroup.Post("/signout", middleware.AuthRequired, s.SignOut)
	authGroup.Get("/session", middleware.AuthRequired, s.GetSession)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Donation routes
	donations := protected.Group("/donations")
	donations.Get("/", s.ListDonations)
	donations.Post("/", middleware.RequireRoles(models.RoleDonor), s.CreateDonation)
	donations.Get("/my-claims", middleware.RequireRoles(models.RoleRecipient), s.ListMyClaims)
	// Define specific /:id/:action routes BEFORE generic /:id route
	donations.Post("/:id/claim", middleware.RequireRoles(models.RoleRecipient), s.ClaimDonation)
	donations.Post("/:id/pickup", s.PickupDonation)
	donations.Post("/:id/cancel", s.CancelDonation)
	donations.Get("/:id", s.GetDonation)
	donations.Delete("/:id", s.DeleteDonation)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/", middleware.RequireRoles(), s.GetAllUsers)
	users.Delete("/:id", middleware.RequireRoles(), s.DeleteUser)

	// Report routes, readable by analysts and admins
	reports := protected.Group("/reports", middleware.RequireRoles(models.RoleAnalyst))
	reports.Get("/summary", s.GetSummaryReport)
	reports.Get("/analytics", s.GetAnalyticsReport)
	reports.Get("/success", s.GetSuccessReport)
	reports.Get("/impact", s.GetImpactReport)
	reports.Get("/expiring", s.GetExpiringReport)

	// Export routes share the reports' access rules
	exports := protected.Group("/exports", middleware.RequireRoles(models.RoleAnalyst))
	exports.Get("/donations", s.ExportDonations)
	exports.Get("/users", s.ExportUsers)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if _, err := s.store.Get(ctx, storage.SlotDonations); err != nil && err != storage.ErrSlotNotFound {
		storeStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "FoodSaver",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"storage": storeStatus,
			"backend": s.config.StorageBackend,
		},
		"time": time.Now(),
	})
}

// generateToken issues a signed JWT for the given account.
func (s *Server) generateToken(userID string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iss":  "foodsaver-api",
		"aud":  "foodsaver-client",
		"jti":  uuid.NewString(),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "FoodSaver API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	go s.sweeper.Run(s.shutdownCtx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the sweeper
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil {
			log.Printf("error closing store: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
