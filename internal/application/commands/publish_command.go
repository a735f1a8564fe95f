package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/odinpkg/internal/publisher"
)

func PublishCommand() *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Publish the package in the current git checkout",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "registry",
				Usage:   "Registry base URL",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("ODINPKG_REGISTRY"),
			},
			&cli.StringFlag{
				Name:     "token",
				Aliases:  []string{"t"},
				Usage:    "CLI token",
				Required: true,
				Sources:  cli.EnvVars("ODINPKG_TOKEN"),
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Manifest path, defaults to <dir>/" + publisher.ManifestFile,
			},
			&cli.StringFlag{
				Name:     "compiler",
				Usage:    "Odin compiler version the package was tested with",
				Required: true,
				Sources:  cli.EnvVars("ODIN_VERSION"),
			},
			&cli.StringFlag{
				Name:  "version",
				Usage: "Override the manifest version",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Mark the version as using unsafe features",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate locally and print the submission without sending it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "."
			}

			req, err := publisher.Prepare(publisher.Options{
				Dir:      dir,
				Manifest: cmd.String("manifest"),
				Compiler: cmd.String("compiler"),
				Version:  cmd.String("version"),
				Insecure: cmd.Bool("insecure"),
			})
			if err != nil {
				return err
			}

			if cmd.Bool("dry-run") {
				fmt.Fprintf(cmd.Writer, "%s %s (commit %s, %d KB)\n",
					req.UserData.URL, req.UserData.Version, req.CommitHash, req.SizeKB)
				return nil
			}

			resp, err := publisher.NewClient(cmd.String("registry"), cmd.String("token")).Publish(ctx, req)
			var rejected *publisher.RejectedError
			if errors.As(err, &rejected) {
				return cli.Exit(rejected.Error(), 1)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "%s: %s %s\n", resp.Message, req.UserData.URL, resp.Version)
			return nil
		},
	}
}
