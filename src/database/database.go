// backend/src/database/database.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/username/financeflow/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the sqlite database and keeps it on a single connection.
// WAL and busy_timeout make concurrent handler writes safe; the single
// connection avoids SQLITE_BUSY under load.
func InitDB(databasePath string) error {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", databasePath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database %s: %w", databasePath, err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return fmt.Errorf("ping database %s: %w", databasePath, err)
	}

	DB = db
	logger.L.Info("Ligação à base de dados estabelecida", "path", databasePath, "journalMode", "WAL")
	return nil
}

// RunMigrations applies every pending migration from migrationsDir.
// An up-to-date schema is not an error.
func RunMigrations(migrationsDir string) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	driver, err := sqlite.WithInstance(DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}

	absDir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir %s: %w", migrationsDir, err)
	}
	sourceURL := "file://" + filepath.ToSlash(absDir)

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "financeflow", driver)
	if err != nil {
		return fmt.Errorf("create migration instance from %s: %w", sourceURL, err)
	}

	logger.L.Info("Applying database migrations", "source", sourceURL)
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.L.Info("Schema already up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.L.Info("Database migrations applied")
	return nil
}
