package database

import (
	"fmt"

	"github.com/bravo68web/odinpkg/internal/domain/models"
)

// Models lists every persisted model in dependency order
func Models() []any {
	return []any{
		&models.User{},
		&models.ApiToken{},
		&models.Package{},
		&models.Version{},
		&models.VersionDependency{},
		&models.Flag{},
		&models.Tag{},
		&models.PackageTag{},
		&models.TagVote{},
		&models.Bookmark{},
	}
}

// AutoMigrate creates or updates tables from the gorm models. It is the
// development fallback for environments without the atlas binary.
func (d *Database) AutoMigrate() error {
	d.log.Info("Running gorm auto-migration")
	if err := d.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	// gorm cannot express the case-insensitive identity index used by lookups
	return d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_packages_identity_lower
		ON packages (lower(host_name), lower(owner_name), lower(repo_name))`).Error
}
