package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"larvatrack/internal/config"
	"larvatrack/internal/lifecycle"
	"larvatrack/internal/middleware"
	"larvatrack/internal/models"
	"larvatrack/internal/repository"
	"larvatrack/internal/service"
	"larvatrack/internal/storage"
)

type HandlerSet struct {
	log              zerolog.Logger
	cfg              *config.AppConfig
	authService      *service.AuthService
	ingestService    *service.IngestService
	detectionService *service.DetectionService
	db               *pgxpool.Pool
	cache            *redis.Client
	users            *repository.UserRepository
	sessions         *repository.SessionRepository
	detections       *repository.DetectionRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, engine *lifecycle.Engine, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	detectionRepo := repository.NewDetectionRepository(db)
	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	ingest := service.NewIngestService(detectionRepo, store, engine, cfg, log)
	detection := service.NewDetectionService(detectionRepo, engine, log)

	return HandlerSet{
		log:              log,
		cfg:              cfg,
		authService:      auth,
		ingestService:    ingest,
		detectionService: detection,
		db:               db,
		cache:            cache,
		users:            userRepo,
		sessions:         sessionRepo,
		detections:       detectionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)

		me := v1.Group("/auth")
		me.Use(middleware.Auth(h.cfg, h.users, h.sessions))
		me.GET("/me", h.Me)
	}

	detections := v1.Group("/detections")
	detections.Use(middleware.Auth(h.cfg, h.users, h.sessions))
	detections.POST("", h.IngestDetection)
	detections.GET("", h.ListDetections)
	detections.GET("/:id", h.GetDetection)

	review := v1.Group("/detections")
	review.Use(
		middleware.Auth(h.cfg, h.users, h.sessions),
		middleware.RequireRoles(models.UserRoleReviewer, models.UserRoleAdmin),
	)
	review.POST("/:id/validate", h.ValidateDetection)
	review.POST("/:id/resolve", h.ResolveDetection)

	admin := v1.Group("/admin")
	admin.Use(
		middleware.Auth(h.cfg, h.users, h.sessions),
		middleware.RequireRoles(models.UserRoleAdmin),
	)
	admin.GET("/detections", h.AdminListDetections)
}
