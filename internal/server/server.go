package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/api"
	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Options carries the optional collaborators of a Server. Nil fields fall back
// to the defaults built from the config.
type Options struct {
	Redis  *redis.Client
	Photos service.PhotoStorage
	LLM    service.Completer
	Mailer service.Mailer
}

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New wires every service and handler onto a fresh gin engine.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, opts Options) (*Server, error) {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cache, err := service.NewPromptContextCache()
	if err != nil {
		return nil, err
	}
	if opts.LLM == nil {
		opts.LLM = service.NewLLMClient(cfg, log)
	}
	if opts.Mailer == nil {
		opts.Mailer = service.NewEmailService(cfg, log)
	}

	prompts := service.NewPromptBuilder(db, cache)
	access := service.NewAccessService(db, log)

	var limiter *middleware.RateLimiter
	if opts.Redis != nil {
		limiter = middleware.NewSashaChatRateLimiter(opts.Redis)
	} else {
		log.Warn("redis unavailable, chat rate limiting and logout revocation disabled")
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.AllowedOrigins),
	)

	api.SetupAPI(router, api.Dependencies{
		DB:          db,
		Log:         log,
		Auth:        service.NewAuthService(db, opts.Redis, opts.Mailer, cfg.JWTSecret, log),
		Access:      access,
		Recipes:     service.NewRecipeService(db, cache, log),
		BakeBook:    service.NewBakeBookService(db),
		Chat:        service.NewChatService(db, opts.LLM, prompts, log),
		Training:    service.NewTrainingService(db, opts.LLM, prompts, cache, log),
		Admin:       service.NewAdminService(db, access),
		Community:   service.NewCommunityService(db),
		Profile:     service.NewProfileService(db),
		Stores:      service.NewStores(db, cache),
		Photos:      opts.Photos,
		ChatLimiter: limiter,
		Features:    api.Features{RecipeDetailV2: cfg.RecipeDetailV2},
	})

	return &Server{cfg: cfg, router: router, log: log}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(ctx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
