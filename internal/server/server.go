// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "petchef/docs" // swagger docs
	"petchef/internal/bootstrap"
	"petchef/internal/config"
	"petchef/internal/featureflags"
	"petchef/internal/middleware"
	"petchef/internal/models"
	"petchef/internal/repository"
	"petchef/internal/service"
	"petchef/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
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
	storage        *repository.Storage
	sessions       *session.Manager
	limiter        *middleware.Limiter
	featureFlags   *featureflags.Manager
	uploads        *uploadStore

	userService     *service.UserService
	petService      *service.PetService
	recipeService   *service.RecipeService
	commentService  *service.CommentService
	favoriteService *service.FavoriteService
	followService   *service.FollowService
}

// NewServer connects to the database and Redis and wires every dependency.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, the session registry and rate limiting
// then degrade as documented on each component.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires a config and a database")
	}

	storage := bootstrap.NewStorage(cfg, db, redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("petchef-api"),
		storage:        storage,
		sessions:       session.NewManager(cfg.JWTSecret, cfg.SessionTTL(), redisClient),
		limiter:        middleware.NewLimiter(redisClient, cfg.Env),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		uploads:        newUploadStore(cfg.UploadDir, int64(cfg.ImageMaxUploadSizeMB)<<20),

		userService:     service.NewUserService(storage.Users),
		petService:      service.NewPetService(storage.Pets, storage.Users),
		recipeService:   service.NewRecipeService(storage.Recipes),
		commentService:  service.NewCommentService(storage.Comments, storage.Recipes),
		favoriteService: service.NewFavoriteService(storage.Favorites, storage.Recipes, storage.Users),
		followService:   service.NewFollowService(storage.Followers, storage.Users),
	}
	return s, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:   "PetChef API",
		BodyLimit: int(s.uploads.maxBytes) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded images are embedded by the SPA from another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit so error responses keep their headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: s.config.AllowedOrigins != "*",
		MaxAge:           86400,
	}))

	// Coarse per-IP ceiling; the named Redis policies on sensitive routes are stricter.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return !s.limiter.Enabled || c.Method() == fiber.MethodOptions
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
	auth := middleware.AuthRequired(s.sessions)
	optionalAuth := middleware.OptionalAuth(s.sessions)

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static("/uploads", s.uploads.dir, fiber.Static{MaxAge: 3600})

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PetChef Backend Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/feature-flags", optionalAuth, s.GetFeatureFlags)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", s.limiter.Handler(middleware.RateLimitPolicy{
		Name: "register", Limit: 5, Window: 10 * time.Minute,
	}), s.Register)
	authRoutes.Post("/login", s.limiter.Handler(middleware.RateLimitPolicy{
		Name: "login", Limit: 10, Window: 5 * time.Minute, OnFail: middleware.FailClosed,
	}), s.Login)
	authRoutes.Post("/logout", auth, s.Logout)
	authRoutes.Get("/me", auth, s.Me)

	pets := api.Group("/pets")
	pets.Get("/", auth, s.ListMyPets)
	pets.Post("/", auth, s.CreatePet)
	pets.Get("/:id", s.GetPet)
	pets.Put("/:id", auth, s.UpdatePet)
	pets.Delete("/:id", auth, s.DeletePet)

	recipes := api.Group("/recipes")
	recipes.Get("/", s.ListRecipes)
	recipes.Post("/", auth, s.limiter.Handler(middleware.RateLimitPolicy{
		Name: "create_recipe", Limit: 20, Window: time.Hour,
	}), s.CreateRecipe)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	recipes.Post("/:id/cook", auth, s.CookRecipe)
	recipes.Get("/:id/comments", optionalAuth, s.ListComments)
	recipes.Post("/:id/comments", auth, s.limiter.Handler(middleware.RateLimitPolicy{
		Name: "create_comment", Limit: 10, Window: time.Minute,
	}), s.CreateComment)
	recipes.Get("/:id/favorite", auth, s.GetFavoriteStatus)
	recipes.Post("/:id/favorite", auth, s.AddFavorite)
	recipes.Delete("/:id/favorite", auth, s.RemoveFavorite)
	recipes.Get("/:id", s.GetRecipe)
	recipes.Put("/:id", auth, s.UpdateRecipe)
	recipes.Delete("/:id", auth, s.DeleteRecipe)

	comments := api.Group("/comments")
	comments.Get("/:id/replies", s.ListReplies)
	comments.Delete("/:id", auth, s.DeleteComment)

	users := api.Group("/users")
	users.Get("/", s.SearchUsers)
	users.Put("/profile", auth, s.UpdateMyProfile)
	users.Delete("/profile", auth, s.DeleteMyAccount)
	users.Get("/:id/pets", s.GetUserPets)
	users.Get("/:id/favorites", s.GetUserFavorites)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/follow", auth, s.GetFollowStatus)
	users.Post("/:id/follow", auth, s.FollowUser)
	users.Delete("/:id/follow", auth, s.UnfollowUser)
	users.Get("/:id", s.GetUserProfile)
}

// LivenessCheck reports that the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database answers. Redis is optional:
// without it the API still serves, so it only degrades the status.
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

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start listens on the configured port until the app is shut down.
func (s *Server) Start() error {
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
