package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
)

func MigrateCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply pending migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the migrations that would run",
					},
					&cli.StringFlag{
						Name:  "baseline",
						Usage: "Mark migrations up to this version as applied",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, db, cleanup, err := bootstrap(ctx, cmd, version)
					if err != nil {
						return err
					}
					defer cleanup()

					return database.NewMigrator(db).
						WithDryRun(cmd.Bool("dry-run")).
						WithBaseline(cmd.String("baseline")).
						ApplyMigrations(ctx)
				},
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, db, cleanup, err := bootstrap(ctx, cmd, version)
					if err != nil {
						return err
					}
					defer cleanup()

					status, err := database.NewMigrator(db).GetStatus(ctx)
					if err != nil {
						return err
					}
					current := "none"
					if status.Current != "" {
						current = status.Current
					}
					fmt.Fprintf(cmd.Writer, "current: %s\napplied: %d\npending: %d\n",
						current, len(status.Applied), len(status.Pending))
					for _, p := range status.Pending {
						fmt.Fprintf(cmd.Writer, "  pending %s %s\n", p.Version, p.Description)
					}
					return nil
				},
			},
		},
	}
}
