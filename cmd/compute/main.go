package main

import (
	"context"
	"flag"
	"runtime/debug"
	"time"

	"github.com/vidinfra/clv/internal/config"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/postgres"
	"github.com/vidinfra/clv/internal/repository"
	"github.com/vidinfra/clv/internal/service"
	"github.com/vidinfra/clv/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	memoryLimitMiB := flag.Int64("memory-limit", 0, "optionally raises the runtime soft memory limit to the given value (in MiBs)")
	flag.Parse()

	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewSubscriptionRepository,
			repository.NewAccessRepository,
			repository.NewCLVRepository,

			// Services
			service.NewServiceParams,
			service.NewComputeService,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			shutdowner fx.Shutdowner,
			cfg *config.Configuration,
			log *logger.Logger,
			db *postgres.DB,
			computeService service.ComputeService,
		) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					applyMemoryLimit(cfg, *memoryLimitMiB, log)
					go func() {
						defer func() { _ = shutdowner.Shutdown() }()

						summary, err := computeService.Run(context.Background())
						if err != nil {
							log.Fatalw("CLV computation failed", "error", err)
						}
						log.Infow("CLV computation finished",
							"eligible_users", summary.EligibleUsers,
							"computed_users", summary.ComputedUsers,
							"groups", summary.GroupCount,
						)
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					db.Close()
					return nil
				},
			})
		}),
	)

	app.Run()
}

// applyMemoryLimit sets the runtime soft memory limit, preferring the
// command-line override over the configured value. Zero leaves the
// runtime default in place.
func applyMemoryLimit(cfg *config.Configuration, flagMiB int64, log *logger.Logger) {
	limitMiB := cfg.CLV.MemoryLimitMiB
	if flagMiB > 0 {
		limitMiB = flagMiB
	}
	if limitMiB > 0 {
		debug.SetMemoryLimit(limitMiB << 20)
		log.Infow("runtime memory limit set", "limit_mib", limitMiB)
	}
}
