package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/vidinfra/clv/internal/config"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/postgres"
)

//go:embed migrations
var migrations embed.FS

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		logger.Fatalw("Failed to read embedded migrations", "error", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrations.ReadFile("migrations/" + name)
		if err != nil {
			logger.Fatalw("Failed to read migration", "name", name, "error", err)
		}

		if *dryRun {
			fmt.Printf("-- %s\n%s\n", name, sql)
			continue
		}

		logger.Infow("Applying migration", "name", name)
		err = db.WithTx(ctx, func(ctx context.Context) error {
			_, execErr := db.GetQuerier(ctx).ExecContext(ctx, string(sql))
			return execErr
		})
		if err != nil {
			logger.Fatalw("Failed to apply migration", "name", name, "error", err)
		}
	}

	logger.Info("Migrations completed successfully")
}
