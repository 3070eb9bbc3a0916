// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"userbase/internal/auth"
	"userbase/internal/config"
	"userbase/internal/database"
	"userbase/internal/middleware"
	"userbase/internal/repository"
	"userbase/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// initPrometheus builds the request-metrics middleware exactly once. The
// underlying collectors live in the default registry, so a second
// construction would panic on duplicate registration.
func initPrometheus() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMW = fiberprometheus.New("userbase")
	})
	return promMW
}

// Server holds all dependencies and provides handlers.
type Server struct {
	config  *config.Config
	db      *gorm.DB
	redis   *redis.Client
	log     *slog.Logger
	hasher  auth.PasswordHasher
	userSvc *service.UserService
	prom    *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance with all dependencies, composed
// explicitly in dependency order: store, hasher, service, boundary.
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})

	return NewServerWithDeps(cfg, log, db, redisClient), nil
}

// NewServerWithDeps wires a server around already-constructed external
// resources. Tests use this with an in-memory database and no Redis.
func NewServerWithDeps(cfg *config.Config, log *slog.Logger, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	hasher := auth.NewBcryptHasher()
	userSvc := service.NewUserService(userRepo, hasher, log)

	return &Server{
		config:  cfg,
		db:      db,
		redis:   redisClient,
		log:     log,
		hasher:  hasher,
		userSvc: userSvc,
		prom:    initPrometheus(),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Panic recovery
	app.Use(recover.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger(s.log))

	// Prometheus request metrics
	s.prom.RegisterAt(app, "/api/metrics")
	app.Use(s.prom.Middleware)

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Registration and login are the abuse-prone endpoints; everything else
	// is plain CRUD.
	api.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	users := api.Group("/users")
	users.Get("/", s.GetAllUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id/permanent", s.DeleteUserPermanently)
	users.Delete("/:id", s.DeleteUser)
}

// HealthCheck handles GET /api/
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
