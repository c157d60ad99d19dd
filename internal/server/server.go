// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"gridcode/internal/cache"
	"gridcode/internal/config"
	"gridcode/internal/database"
	"gridcode/internal/featureflags"
	"gridcode/internal/memstore"
	"gridcode/internal/middleware"
	"gridcode/internal/models"
	"gridcode/internal/repository"
	"gridcode/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	sessions       SessionStore
	featureFlags   *featureflags.Manager

	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	engagementRepo  repository.EngagementRepository
	commentRepo     repository.CommentRepository
	inviteRepo      repository.InviteRepository
	profileViewRepo repository.ProfileViewRepository

	postService       *service.PostService
	commentService    *service.CommentService
	engagementService *service.EngagementService
	hashtagService    *service.HashtagService
	inviteService     *service.InviteService
	profileService    *service.ProfileService
}

// NewServer creates a new server instance with all dependencies. With
// DB_DRIVER=memory the whole storage layer runs in process, otherwise the
// repositories are GORM-backed.
func NewServer(cfg *config.Config) (*Server, error) {
	var db *gorm.DB
	server := &Server{config: cfg}

	if cfg.DBDriver == "memory" {
		store := memstore.New()
		server.userRepo = store.Users()
		server.postRepo = store.Posts()
		server.engagementRepo = store.Engagements()
		server.commentRepo = store.Comments()
		server.inviteRepo = store.Invites()
		server.profileViewRepo = store.ProfileViews()
	} else {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		server.db = db
		server.userRepo = repository.NewUserRepository(db)
		server.postRepo = repository.NewPostRepository(db)
		server.engagementRepo = repository.NewEngagementRepository(db)
		server.commentRepo = repository.NewCommentRepository(db)
		server.inviteRepo = repository.NewInviteRepository(db)
		server.profileViewRepo = repository.NewProfileViewRepository(db)
	}

	cache.InitRedis(cfg.RedisURL)
	server.redis = cache.GetClient()

	server.promMiddleware = middleware.InitMetrics("gridcode-api")
	server.featureFlags = featureflags.NewManager(cfg.FeatureFlags)

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	if server.redis != nil {
		server.sessions = NewRedisSessionStore(server.redis, sessionTTL)
	} else {
		server.sessions = NewMemorySessionStore(sessionTTL)
	}

	server.wireServices()
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("gridcode-api"),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
		userRepo:        repository.NewUserRepository(db),
		postRepo:        repository.NewPostRepository(db),
		engagementRepo:  repository.NewEngagementRepository(db),
		commentRepo:     repository.NewCommentRepository(db),
		inviteRepo:      repository.NewInviteRepository(db),
		profileViewRepo: repository.NewProfileViewRepository(db),
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	if redisClient != nil {
		server.sessions = NewRedisSessionStore(redisClient, sessionTTL)
	} else {
		server.sessions = NewMemorySessionStore(sessionTTL)
	}

	server.wireServices()
	return server, nil
}

func (s *Server) wireServices() {
	s.postService = service.NewPostService(s.postRepo, s.engagementRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.engagementService = service.NewEngagementService(s.engagementRepo, s.postRepo)
	s.hashtagService = service.NewHashtagService(s.postRepo, s.engagementRepo, s.config.CommonHashtagList())
	s.inviteService = service.NewInviteService(s.inviteRepo)
	s.profileService = service.NewProfileService(s.profileViewRepo, s.userRepo)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
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

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "GridCode Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/user", s.CurrentUser)

	// Invite validation is public: it happens before an account exists.
	invite := api.Group("/invite")
	invite.Post("/validate", middleware.RateLimit(
		s.redis, 10, time.Minute, "invite_validate"), s.ValidateInvite)
	invite.Post("/mark-used", s.AuthRequired(), s.MarkInviteUsed)

	// Public browse routes. Guests can read everything.
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	hashtags := api.Group("/hashtags")
	hashtags.Get("/common", s.GetCommonHashtags)
	hashtags.Get("/trending", s.GetTrendingHashtags)
	hashtags.Get("/analytics", s.GetHashtagAnalytics)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protectedPosts := protected.Group("/posts")
	protectedPosts.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	protectedPosts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	protectedPosts.Put("/:id", s.UpdatePost)
	protectedPosts.Delete("/:id", s.DeletePost)

	protected.Post("/reactions", middleware.RateLimit(
		s.redis, 30, time.Minute, "react"), s.CreateReaction)
	protected.Post("/endorsements", middleware.RateLimit(
		s.redis, 30, time.Minute, "endorse"), s.CreateEndorsement)

	users := protected.Group("/users")
	users.Post("/invites", s.GenerateInvites)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/profile-viewers", s.GetProfileViewers)
	users.Get("/:id/profile-analytics", s.GetProfileAnalytics)
	users.Get("/:id/profile", s.GetUserProfile)
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

	// The in-memory driver has no database to probe.
	dbStatus := "healthy"
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It resolves the
// session cookie to a user ID and stores it in the request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		userID, ok, err := s.sessions.Lookup(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired session"))
		}

		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// optionalUserID resolves the session cookie without enforcing it. Guests
// get (0, false).
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		return 0, false
	}
	userID, ok, err := s.sessions.Lookup(c.Context(), token)
	if err != nil || !ok {
		return 0, false
	}
	return userID, true
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "GridCode API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.StatusForError(err), err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
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
