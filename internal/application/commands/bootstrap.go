package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
	"github.com/bravo68web/odinpkg/internal/infrastructure/otel"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// bootstrap loads configuration, installs the global logger and connects to
// the database. The returned cleanup closes both.
func bootstrap(ctx context.Context, cmd *cli.Command, version string) (*config.Config, *database.Database, func(), error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := otel.SetupLogger(ctx, cfg, version)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		_ = log.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", logger.Error(err))
		}
		_ = log.Close()
	}
	return cfg, db, cleanup, nil
}
