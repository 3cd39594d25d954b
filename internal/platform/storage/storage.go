package storage

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// Open initialises the SQLite database backing the catalog and user tables.
func Open(path string) (*gorm.DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindStorage, "open",
				"create data directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "open",
			"open database", err)
	}
	return db, nil
}

// Migrate runs auto-migration for the provided models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "migrate",
			"auto-migrate models", err)
	}
	return nil
}
