package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/injectable"
	"github.com/bravo68web/odinpkg/internal/server"
	"github.com/bravo68web/odinpkg/internal/transport/http/router"
)

// OpenAPICommand writes the API description without connecting to anything.
// Routes are registered against empty dependencies; no handler runs.
func OpenAPICommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "openapi",
		Usage: "Write the OpenAPI document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file, .json for JSON, YAML otherwise",
				Value:   "openapi.yaml",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			server.Version = version
			srv := server.New(&config.Config{Server: config.ServerConfig{Mode: "test"}}, nil)
			router.NewRouter(srv, &injectable.Dependencies{}).RegisterRoutes()

			out := cmd.String("output")
			if err := srv.OpenAPIGenerator.Generate().SaveToFile(out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.Writer, "wrote %s\n", out)
			return nil
		},
	}
}
