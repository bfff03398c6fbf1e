package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"classifieds-bot-backend/internal/common/config"
	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/service"
)

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Server is the companion HTTP surface: referral checks and marketplace
// moderation for the web side of the platform.
type Server struct {
	engine    *gin.Engine
	srv       *http.Server
	cfg       *config.Config
	db        Pinger
	users     domain.UserRepository
	referrals *service.ReferralService
	lifecycle *service.Lifecycle
	log       zerolog.Logger
}

func New(cfg *config.Config, db Pinger, users domain.UserRepository,
	referrals *service.ReferralService, lifecycle *service.Lifecycle) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:    gin.New(),
		cfg:       cfg,
		db:        db,
		users:     users,
		referrals: referrals,
		lifecycle: lifecycle,
		log:       logger.With("http"),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestID())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.HTTP.Origin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api", apiKeyAuth(s.cfg.HTTP.APIKey))
	api.POST("/referral/check", s.referralCheck)
	api.POST("/admin/moderation", s.moderate)
}

func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:    s.cfg.HTTP.Addr,
		Handler: s.engine,
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("HTTP server failed")
		}
	}()
	s.log.Info().Str("addr", s.cfg.HTTP.Addr).Msg("HTTP server started")
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
