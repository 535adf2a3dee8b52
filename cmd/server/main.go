package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"filmsocial/backend/internal/account"
	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/catalog"
	"filmsocial/backend/internal/config"
	"filmsocial/backend/internal/database"
	"filmsocial/backend/internal/friendship"
	"filmsocial/backend/internal/handler"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/middleware"
	"filmsocial/backend/internal/rating"
	"filmsocial/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	config.LoadConfig()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg := config.AppConfig

	log, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Connect to the database
	db, err := database.Connect(database.Options{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseURL,
		Debug:  cfg.Debug,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.EnsureAdmin(db, database.AdminAccount{
		Login:    cfg.AdminLogin,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
	}, log); err != nil {
		log.Fatal("failed to create admin account", zap.Error(err))
	}

	store := repository.NewStore(db)
	events := hub.New(log.Named("hub"))
	readCache := cache.New(cache.Config{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	}, log.Named("cache"))
	events.AddListener(cache.Invalidator(readCache, log.Named("cache")))

	friendships := friendship.NewService(store, events, log)
	ratings := rating.NewService(store, events, log)
	h := &handler.Handler{
		Accounts: account.NewService(store, friendships, ratings, events, account.TokenConfig{
			Secret: cfg.JWTSecret,
			TTL:    cfg.JWTTTL,
		}, log),
		Friendships: friendships,
		Catalog:     catalog.NewService(store, events, log),
		Ratings:     ratings,
		Hub:         events,
		Cache:       readCache,
		ShortTTL:    cfg.CacheShortTTL,
		LongTTL:     cfg.CacheLongTTL,
		Log:         log.Named("http"),
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.TraceID(),
		middleware.Recovery(log),
		middleware.Logger(log.Named("http")),
		middleware.Metrics(),
	)
	h.RegisterRoutes(router, handler.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Users:     store.Users(),
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		RateBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
