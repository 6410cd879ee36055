package db

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"wedding-app-go/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func Migrate(gormDB *gorm.DB, log logger.Logger) error {
	return migrate(gormDB, migrationFiles, log)
}

func migrate(gormDB *gorm.DB, files fs.FS, log logger.Logger) error {
	if err := ensureSchemaMigrations(gormDB); err != nil {
		return err
	}

	names, err := migrationNames(files)
	if err != nil {
		return err
	}

	for _, name := range names {
		applied, err := isMigrationApplied(gormDB, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		contents, err := fs.ReadFile(files, "migrations/"+name)
		if err != nil {
			return err
		}

		sql := strings.TrimSpace(string(contents))
		if sql == "" {
			continue
		}

		err = gormDB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(sql).Error; err != nil {
				return err
			}
			return recordMigration(tx, name)
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		log.Info("db: migration applied", "file", name)
	}

	return nil
}

func migrationNames(files fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(files, "migrations")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func ensureSchemaMigrations(gormDB *gorm.DB) error {
	return gormDB.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`).Error
}

func isMigrationApplied(gormDB *gorm.DB, name string) (bool, error) {
	var count int64
	if err := gormDB.Raw("SELECT COUNT(1) FROM schema_migrations WHERE filename = ?", name).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func recordMigration(tx *gorm.DB, name string) error {
	return tx.Exec("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)", name, time.Now().UTC()).Error
}
