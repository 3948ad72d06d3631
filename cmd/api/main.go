package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadintake/internal/config"
	"leadintake/internal/database"
	"leadintake/internal/domain/admin"
	"leadintake/internal/domain/lead"
	"leadintake/internal/domain/upload"
	"leadintake/internal/metrics"
	jwtsvc "leadintake/internal/pkg/jwt"
	"leadintake/internal/pkg/logger"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	leadStore, uploadRepo, closeStore, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	adminService, err := admin.NewService(cfg.AdminUsername, cfg.AdminPassword, jwtService)
	if err != nil {
		return err
	}

	m := metrics.New()
	hub := lead.NewHub(log)
	defer hub.Close()

	resumes := upload.NewService(uploadRepo, cfg.UploadDir, cfg.MaxResumeBytes)

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		jwt:     jwtService,
		admin:   adminService,
		leads:   lead.NewService(leadStore, resumes, hub, m, log, cfg.TrustClientSubmittedAt),
		hub:     hub,
		resumes: resumes,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("env", cfg.AppEnv),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Websocket connections are hijacked and not tracked by Shutdown.
	hub.Close()
	return srv.Shutdown(shutdownCtx)
}

func openStores(cfg *config.Config, log *zap.Logger) (lead.Store, upload.Repository, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("using in-memory store; leads are lost on restart")
		return lead.NewMemoryStore(), upload.NewMemoryRepository(), func() {}, nil
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db, &lead.Lead{}, &upload.Upload{}); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return lead.NewRepository(db), upload.NewRepository(db), closeDB(db, log), nil
}

func closeDB(db *gorm.DB, log *zap.Logger) func() {
	return func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}
}
