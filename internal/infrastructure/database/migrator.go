package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/lib/pq"

	"github.com/bravo68web/odinpkg/pkg/logger"
)

//go:embed all:migrations
var migrationsFS embed.FS

// Migrator handles database migrations using Atlas
type Migrator struct {
	db              *Database
	dryRun          bool
	baselineVersion string
	log             *logger.Logger
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *Database) *Migrator {
	return &Migrator{
		db:  db,
		log: logger.Get().WithFields(logger.Component("migrator")),
	}
}

// WithDryRun sets the migrator to dry-run mode (no actual changes)
func (m *Migrator) WithDryRun(dryRun bool) *Migrator {
	m.dryRun = dryRun
	return m
}

// WithBaseline sets a baseline version to skip migrations up to that version
// Use this when the database already has the schema from a previous setup
func (m *Migrator) WithBaseline(version string) *Migrator {
	m.baselineVersion = version
	return m
}

// ApplyMigrations applies all pending migrations to the database
func (m *Migrator) ApplyMigrations(ctx context.Context) error {
	// Must run before atlas touches the database, or the baseline decision is wrong
	hasExistingSchema := m.detectExistingSchema(ctx)
	hasRevisionTable := m.detectRevisionTable(ctx)

	m.log.Debug("Inspected database",
		logger.Bool("existing_schema", hasExistingSchema),
		logger.Bool("revision_table", hasRevisionTable),
	)

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations subdirectory: %w", err)
	}

	client, closeDir, err := newAtlasClient(migrationsDir)
	if err != nil {
		return err
	}
	defer closeDir()

	params := &atlasexec.MigrateApplyParams{
		URL:    m.db.config.URL(),
		DryRun: m.dryRun,
	}

	// If database has existing tables but NO revision table, we need to baseline
	// This means it's a database that was set up before Atlas migrations were added
	// Note: baseline and allow-dirty are mutually exclusive in Atlas
	if hasExistingSchema && !hasRevisionTable {
		// Get the latest migration version to use as baseline
		baselineVersion := m.baselineVersion
		if baselineVersion == "" {
			baselineVersion, err = m.getLatestMigrationVersion(migrationsDir)
			if err != nil {
				return fmt.Errorf("failed to determine baseline version: %w", err)
			}
		}

		if baselineVersion != "" {
			m.log.Info("Existing schema without migration history, setting baseline",
				logger.String("baseline", baselineVersion))
			params.BaselineVersion = baselineVersion
		}
	} else {
		// Only use AllowDirty when NOT using baseline
		// This handles cases where the database has a public schema but no application tables
		params.AllowDirty = true
	}

	result, err := client.MigrateApply(ctx, params)
	if err != nil {
		if applyErr, ok := err.(*atlasexec.MigrateApplyError); ok {
			for _, r := range applyErr.Result {
				m.log.Error("Migration failed after partial apply",
					logger.Int("applied", len(r.Applied)), logger.Error(applyErr))
			}
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if result == nil {
		m.log.Info("Database migrations completed (baseline set)")
		return nil
	}

	for _, applied := range result.Applied {
		m.log.Info("Applied migration", logger.String("name", applied.Name))
	}
	m.log.Info("Database migrations completed",
		logger.Int("applied", len(result.Applied)),
		logger.Int("pending", len(result.Pending)),
	)

	return nil
}

// GetStatus returns the current migration status
func (m *Migrator) GetStatus(ctx context.Context) (*atlasexec.MigrateStatus, error) {
	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get migrations subdirectory: %w", err)
	}

	client, closeDir, err := newAtlasClient(migrationsDir)
	if err != nil {
		return nil, err
	}
	defer closeDir()

	status, err := client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{
		URL: m.db.config.URL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	return status, nil
}

// newAtlasClient writes the embedded migrations to a working directory and
// returns a client for it along with the cleanup for that directory
func newAtlasClient(migrationsDir fs.FS) (*atlasexec.Client, func(), error) {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(migrationsDir))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	client, err := atlasexec.NewClient(workdir.Path(), "atlas")
	if err != nil {
		workdir.Close()
		return nil, nil, fmt.Errorf("failed to initialize atlas client: %w", err)
	}
	return client, func() { workdir.Close() }, nil
}

// detectExistingSchema checks if the database already has registry tables
func (m *Migrator) detectExistingSchema(ctx context.Context) bool {
	return m.tablesExist(ctx, "users", "packages", "versions", "api_tokens")
}

// detectRevisionTable checks if Atlas revision table exists
func (m *Migrator) detectRevisionTable(ctx context.Context) bool {
	return m.tablesExist(ctx, "atlas_schema_revisions")
}

func (m *Migrator) tablesExist(ctx context.Context, tables ...string) bool {
	var exists bool
	err := m.db.sqlx.GetContext(ctx, &exists, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	)`, pq.Array(tables))
	return err == nil && exists
}

// getLatestMigrationVersion reads the migration files and returns the latest version
func (m *Migrator) getLatestMigrationVersion(migrationsDir fs.FS) (string, error) {
	entries, err := fs.ReadDir(migrationsDir, ".")
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}

	return latestVersion(entries), nil
}

// latestVersion returns the highest migration version among the entries.
// Files are named <timestamp>[_name].sql, so versions sort lexicographically.
func latestVersion(entries []fs.DirEntry) string {
	var latest string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, _, _ := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
		if len(version) >= 14 && version > latest {
			latest = version
		}
	}
	return latest
}
