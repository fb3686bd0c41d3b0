package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New wires services, middleware and routes into a server instance. The
// redis client and image service are optional; without them rate limiting
// and image upload are disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images *service.ImageService) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	authService := service.NewAuthService(db, cfg.JWTSecret)
	paginator := api.Paginator{PageSize: cfg.PageSize, MaxPageSize: cfg.MaxPageSize}

	v1 := router.Group("/api/v1")
	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, authService, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     120,
			KeyPrefix: "ratelimit",
		})
		v1.Use(limiter.RateLimitMiddleware())
	}

	v1.GET("/health", api.HealthHandler)

	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewCatalogHandler(service.NewCatalogService(db)).RegisterRoutes(v1)
	api.NewRecipeHandler(
		service.NewRecipeService(db),
		service.NewFavoriteService(db),
		service.NewShoppingCartService(db),
		service.NewShoppingListService(db),
		images,
		authService,
		paginator,
	).RegisterRoutes(v1)
	api.NewSubscriptionHandler(service.NewSubscriptionService(db), authService, paginator).RegisterRoutes(v1)

	return &Server{
		router: router,
		cfg:    cfg,
	}
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
