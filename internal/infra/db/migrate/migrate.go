package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"

	"github.com/pressly/goose/v3"
)

//go:embed mysql/*.sql postgres/*.sql
var migrations embed.FS

// Files returns the embedded migrations of a driver ("mysql" or "postgres").
func Files(driver string) (fs.FS, goose.Dialect, error) {
	var dialect goose.Dialect
	switch driver {
	case "mysql":
		dialect = goose.DialectMySQL
	case "postgres":
		dialect = goose.DialectPostgres
	default:
		return nil, "", fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	sub, err := fs.Sub(migrations, driver)
	if err != nil {
		return nil, "", err
	}
	return sub, dialect, nil
}

// Up applies every pending migration. The db is left open.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	fsys, dialect, err := Files(driver)
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		log.Printf("migrate=applied version=%d path=%s duration_ms=%d", r.Source.Version, r.Source.Path, r.Duration.Milliseconds())
	}
	return len(results), nil
}
