package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bravo68web/odinpkg/internal/application/commands"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	app := commands.NewCommandRegistry(version).RegisterCLI()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
