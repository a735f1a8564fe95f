// Command atlasloader prints the schema of the gorm models as SQL. atlas.hcl
// uses it as the desired state when diffing new migrations.
package main

import (
	"fmt"
	"io"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"

	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(database.Models()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	if _, err := io.WriteString(os.Stdout, stmts); err != nil {
		os.Exit(1)
	}
}
