package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
	"github.com/bravo68web/odinpkg/internal/injectable"
	"github.com/bravo68web/odinpkg/internal/server"
	"github.com/bravo68web/odinpkg/internal/transport/http/router"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

func ServeCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the registry HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply pending migrations before serving",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, db, cleanup, err := bootstrap(ctx, cmd, version)
			if err != nil {
				return err
			}
			defer cleanup()

			log := logger.Get().WithFields(logger.Component("serve"))

			if cmd.Bool("migrate") {
				if cfg.Database.AutoMigrate {
					err = db.AutoMigrate()
				} else {
					err = database.NewMigrator(db).ApplyMigrations(ctx)
				}
				if err != nil {
					return fmt.Errorf("migrations failed: %w", err)
				}
			}

			deps, err := injectable.LoadDependencies(ctx, cfg, db)
			if err != nil {
				return err
			}
			defer func() {
				if err := deps.Close(); err != nil {
					log.Warn("failed to close dependencies", logger.Error(err))
				}
			}()

			server.Version = version
			srv := server.New(cfg, db)
			router.NewRouter(srv, deps).RegisterRoutes()

			log.Info("starting odinpkg", logger.Version(version), logger.String("mode", cfg.Server.Mode))
			return srv.Run(ctx)
		},
	}
}
