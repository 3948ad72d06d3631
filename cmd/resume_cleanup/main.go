package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadintake/internal/config"
	"leadintake/internal/database"
	"leadintake/internal/domain/lead"
	"leadintake/internal/domain/upload"
	"leadintake/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		olderThan time.Duration
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "resume_cleanup",
		Short: "Delete stored resumes that no lead references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return err
			}
			if cfg.StoreDriver == config.StoreMemory {
				return fmt.Errorf("nothing to clean with the memory store")
			}

			log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.DatabaseURL, log)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer closeDB(db, log)

			resumes := upload.NewService(upload.NewRepository(db), cfg.UploadDir, cfg.MaxResumeBytes)
			n, err := cleanup(cmd.Context(), db, resumes, time.Now().Add(-olderThan), dryRun, log)
			if err != nil {
				return err
			}
			log.Info("resume cleanup completed", zap.Int("removed", n), zap.Bool("dry_run", dryRun))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "only remove uploads created before now minus this")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list orphaned uploads without deleting them")
	return cmd
}

type resumeDeleter interface {
	Delete(ctx context.Context, id string) error
}

// orphanIDs lists uploads created before cutoff that no lead points at.
// They are left behind when a lead insert fails after the file was stored.
func orphanIDs(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&upload.Upload{}).
		Where("created_at < ?", cutoff).
		Where("id NOT IN (?)", db.Model(&lead.Lead{}).Select("resume_id")).
		Pluck("id", &ids).Error
	return ids, err
}

func cleanup(ctx context.Context, db *gorm.DB, resumes resumeDeleter, cutoff time.Time, dryRun bool, log *zap.Logger) (int, error) {
	ids, err := orphanIDs(ctx, db, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find orphaned uploads: %w", err)
	}

	removed := 0
	for _, id := range ids {
		if dryRun {
			log.Info("orphaned upload", zap.String("upload_id", id))
			continue
		}
		if err := resumes.Delete(ctx, id); err != nil {
			return removed, fmt.Errorf("delete upload %s: %w", id, err)
		}
		removed++
	}
	return removed, nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
