// Package server contains HTTP and WebSocket handlers for the TaskLink API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "tasklink/docs" // swagger docs
	"tasklink/internal/bootstrap"
	"tasklink/internal/cache"
	"tasklink/internal/config"
	"tasklink/internal/featureflags"
	"tasklink/internal/middleware"
	"tasklink/internal/models"
	"tasklink/internal/notifications"
	"tasklink/internal/repository"
	"tasklink/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	jobRepo     repository.JobRepository
	companyRepo repository.CompanyRepository
	studentRepo repository.StudentRepository

	notifier     *notifications.Notifier
	jobFeed      *notifications.JobFeedHub
	featureFlags *featureflags.Manager

	authService    *service.AuthService
	jobService     *service.JobService
	companyService *service.CompanyService
	studentService *service.StudentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis. A nil
// redisClient disables caching, the blacklist and cross-process job feed.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database handle")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName(cfg)),
		userRepo:       repository.NewUserRepository(db),
		jobRepo:        repository.NewJobRepository(db, time.Duration(cfg.OpenJobsCacheTTL)*time.Second),
		companyRepo:    repository.NewCompanyRepository(db),
		studentRepo:    repository.NewStudentRepository(db),
		jobFeed:        notifications.NewJobFeedHub(0),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	var events service.JobEventPublisher = server.jobFeed
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		events = server.notifier
	}

	server.authService = service.NewAuthService(server.userRepo, server.issueToken)
	server.jobService = service.NewJobService(server.jobRepo, events)
	server.companyService = service.NewCompanyService(server.companyRepo, server.userRepo)
	server.studentService = service.NewStudentService(server.studentRepo, server.userRepo)

	return server, nil
}

func serviceName(cfg *config.Config) string {
	if cfg.ServiceName != "" {
		return cfg.ServiceName
	}
	return "tasklink-api"
}

func (s *Server) issueToken(userID uint, role models.Role) (string, error) {
	if s.config.JWTSecret == "" {
		return "", errors.New("JWT secret not configured")
	}
	return middleware.IssueToken(s.config.JWTSecret, userID, role)
}

// NewApp builds the Fiber application with middleware and routes attached.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "TaskLink API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Message: fiberErr.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request and user ids into the request context for logging
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := s.AuthRequired()
	company := s.RoleRequired(models.RoleCompany)
	student := s.RoleRequired(models.RoleStudent)

	// Auth and onboarding
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", middleware.Throttle(s.redis, middleware.SignupQuota), s.Signup)
	authRoutes.Post("/login", middleware.Throttle(s.redis, middleware.LoginQuota), s.Login)
	authRoutes.Post("/logout", auth, s.Logout)
	authRoutes.Get("/me", auth, s.Me)
	authRoutes.Post("/role", auth, s.SetRole)
	authRoutes.Post("/details/company", auth, s.SaveCompanyDetails)
	authRoutes.Post("/details/student", auth, s.SaveStudentDetails)

	// Jobs. Static paths are registered before /:id.
	jobs := api.Group("/jobs")
	jobs.Get("/open", s.ListOpenJobs)
	jobs.Get("/mine", auth, company, s.ListMyJobs)
	jobs.Get("/", s.ListAllJobs)
	jobs.Post("/", auth, company, middleware.Throttle(s.redis, middleware.CreateJobQuota), s.CreateJob)
	jobs.Patch("/:id/status", auth, company, s.ToggleJobStatus)
	jobs.Put("/:id", auth, company, s.UpdateJob)
	jobs.Delete("/:id", auth, company, s.DeleteJob)
	jobs.Get("/:id", s.GetJob)

	// Profiles
	api.Get("/profile/company", auth, company, s.GetCompanyProfile)
	api.Put("/details/company", auth, company, s.UpdateCompanyProfile)
	api.Post("/details/company", auth, company, s.UpdateCompanyProfile)
	api.Get("/profile/student", auth, student, s.GetStudentProfile)
	api.Put("/profile/student", auth, student, s.UpdateStudentProfile)

	api.Get("/feature-flags", s.GetFeatureFlags)

	// Public live job feed
	api.Get("/ws/jobs", s.requireUpgrade, s.JobFeedHandler())
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

// ReadinessCheck reports database and Redis health. Redis is optional: a
// server started without it is ready with redis "disabled".
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "TaskLink API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the bearer token middleware with the Redis blacklist.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired(s.config.JWTSecret, cache.IsTokenRevoked)
}

// RoleRequired rejects callers whose stored role is not role with 403.
// Must be placed after AuthRequired so that userID is available in locals.
// The stored role is authoritative; the token claim may predate onboarding.
func (s *Server) RoleRequired(role models.Role) fiber.Handler {
	message := "Company account required"
	if role == models.RoleStudent {
		message = "Student account required"
	}

	return func(c *fiber.Ctx) error {
		userID := middleware.UserIDFromLocals(c)
		if userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Unauthorized"))
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			if isNotFound(err) {
				return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Unauthorized"))
			}
			return mapServiceError(c, err)
		}
		if user.Role != role {
			return models.RespondWithError(c, fiber.StatusForbidden, models.NewForbiddenError(message))
		}

		c.Locals("role", user.Role)
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil {
		go func() {
			if err := s.jobFeed.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start job feed wiring", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.jobFeed.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down job feed", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
