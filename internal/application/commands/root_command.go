package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

type CommandRegistry struct {
	version string
}

func NewCommandRegistry(version string) *CommandRegistry {
	return &CommandRegistry{version: version}
}

func (r *CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "odinpkg",
		Usage:                 "Odin package registry",
		Version:               r.version,
		Suggest:               true,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
				Value:   "configs/config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Action: RootCommand(),
		Commands: []*cli.Command{
			ServeCommand(r.version),
			MigrateCommand(r.version),
			OpenAPICommand(r.version),
			PublishCommand(),
		},
	}
}

func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cmd.Writer.Write([]byte("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"))
		cmd.Writer.Write([]byte("Welcome to the odinpkg CLI!\n"))
		cmd.Writer.Write([]byte("Use 'odinpkg --help' to see available commands.\n"))
		cmd.Writer.Write([]byte("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"))
		return nil
	}
}
