// Package server contains the HTTP handlers and route wiring for the
// blog's pages: feeds, post detail, the create/edit/delete flows for
// posts and comments, profiles, and authentication.
package server

import (
	"context"
	"fmt"
	"time"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
	"chronicle/internal/observability"
	"chronicle/internal/repository"
	"chronicle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
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
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	categoryRepo   repository.CategoryRepository
	locationRepo   repository.LocationRepository
	postService    *service.PostService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: observability.NewHTTPMetrics("chronicle"),
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		categoryRepo:   categoryRepo,
		locationRepo:   locationRepo,
	}
	server.postService = service.NewPostService(postRepo, userRepo, categoryRepo, locationRepo, nil)
	server.commentService = service.NewCommentService(commentRepo, postRepo)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Optional viewer resolution must run before the context middleware
	// so the viewer ID lands in the request context for logging.
	app.Use(middleware.ViewerContext())
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.Tracing())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := app.Group("/auth")
	auth.Get("/signup", s.SignupForm)
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Get("/login", s.LoginForm)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Public feed routes
	app.Get("/", s.Index)
	app.Get("/category/:slug", s.CategoryPosts)

	// Profile routes: /profile/edit must be registered before the
	// generic /profile/:username route.
	app.Get("/profile/edit", middleware.LoginRequired(), s.EditProfileForm)
	app.Post("/profile/edit", middleware.LoginRequired(), s.EditProfile)
	app.Get("/profile/:username", s.Profile)

	// Post routes: /posts/create before the generic /posts/:id routes.
	posts := app.Group("/posts")
	posts.Get("/create", middleware.LoginRequired(), s.CreatePostForm)
	posts.Post("/create", middleware.LoginRequired(), middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id", s.PostDetail)
	posts.Get("/:id/edit", middleware.LoginRequired(), s.EditPostForm)
	posts.Post("/:id/edit", middleware.LoginRequired(), s.EditPost)
	posts.Get("/:id/delete", middleware.LoginRequired(), s.DeletePostForm)
	posts.Post("/:id/delete", middleware.LoginRequired(), s.DeletePost)

	// Comment routes
	posts.Get("/:id/comment", middleware.LoginRequired(), s.AddCommentForm)
	posts.Post("/:id/comment", middleware.LoginRequired(), middleware.RateLimit(
		s.redis, 30, time.Minute, "create_comment"), s.AddComment)
	posts.Get("/:id/comment/:cid/edit", middleware.LoginRequired(), s.EditCommentForm)
	posts.Post("/:id/comment/:cid/edit", middleware.LoginRequired(), s.EditComment)
	posts.Get("/:id/comment/:cid/delete", middleware.LoginRequired(), s.DeleteCommentForm)
	posts.Post("/:id/comment/:cid/delete", middleware.LoginRequired(), s.DeleteComment)
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

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"time":   time.Now(),
	})
}
