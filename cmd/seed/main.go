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

	"leadintake/internal/database"
	"leadintake/internal/domain/lead"
	"leadintake/internal/domain/upload"
	"leadintake/internal/pkg/logger"
)

var countries = []string{"United States", "Mexico", "Brazil", "France", "Canada"}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		count int
		dsn   string
		clean bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert mock leads for exercising the admin table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}

			log, err := logger.New("dev", "info")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(dsn, log)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer closeDB(db, log)
			if err := database.Migrate(db, &lead.Lead{}, &upload.Upload{}); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			if clean {
				if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&lead.Lead{}).Error; err != nil {
					return fmt.Errorf("clean leads: %w", err)
				}
				log.Info("removed existing leads")
			}

			n, err := seed(cmd.Context(), lead.NewRepository(db), count, time.Now().UTC())
			if err != nil {
				return err
			}
			log.Info("seed completed", zap.Int("leads", n))
			return nil
		},
	}

	dsnDefault := os.Getenv("DATABASE_URL")
	if dsnDefault == "" {
		dsnDefault = "leads.db"
	}

	cmd.Flags().IntVar(&count, "count", 200, "number of leads to insert")
	cmd.Flags().StringVar(&dsn, "dsn", dsnDefault, "database DSN (postgres:// or a SQLite path)")
	cmd.Flags().BoolVar(&clean, "clean", false, "delete existing leads first")
	return cmd
}

// seed inserts count mock leads, every third one still Pending. Submission
// times are spaced a minute apart, newest last.
func seed(ctx context.Context, store lead.Store, count int, now time.Time) (int, error) {
	for i := range count {
		n := i + 1
		state := lead.StateReachedOut
		if i%3 == 0 {
			state = lead.StatePending
		}

		l := &lead.Lead{
			FirstName:      fmt.Sprintf("Lead%d", n),
			LastName:       fmt.Sprintf("Last%d", n),
			Email:          fmt.Sprintf("lead%d@example.com", n),
			Citizenship:    countries[i%len(countries)],
			Website:        fmt.Sprintf("https://example.com/lead%d", n),
			VisaCategories: []string{lead.VisaCategories[i%len(lead.VisaCategories)]},
			HelpText:       "Need help with visa options",
			State:          state,
			SubmittedAt:    now.Add(time.Duration(n-count) * time.Minute),
		}
		if err := store.Create(ctx, l); err != nil {
			return i, fmt.Errorf("insert lead %d: %w", n, err)
		}
	}
	return count, nil
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
