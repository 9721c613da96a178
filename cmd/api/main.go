package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensamie/blogging-api/internal/api"
	"github.com/sensamie/blogging-api/internal/auth"
	"github.com/sensamie/blogging-api/internal/config"
	"github.com/sensamie/blogging-api/internal/db"
	"github.com/sensamie/blogging-api/internal/logger"
	"github.com/sensamie/blogging-api/internal/metrics"
	"github.com/sensamie/blogging-api/internal/repository/postgres"
	"github.com/sensamie/blogging-api/internal/services"
	"github.com/sensamie/blogging-api/internal/web"
	"github.com/sensamie/blogging-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	userSvc := services.NewUserService(repos.Users, tm)
	blogSvc := services.NewBlogService(repos.Blogs, repos.Users, repos.AuditEvents, wp)

	views, err := web.NewServer(cfg, blogSvc)
	if err != nil {
		log.Error("views", "err", err)
		os.Exit(1)
	}

	r := api.NewRouter(api.RouterDeps{
		Cfg:     cfg,
		UserSvc: userSvc,
		BlogSvc: blogSvc,
		TM:      tm,
		Views:   views.Routes(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
