package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/finmarkets/marketstore/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

// SQLiteDialect backs the store with an embedded SQLite file, matching
// the original deployment of this dataset. The DSN must enable foreign
// keys on every connection, e.g.
// "file:marketstore.db?_pragma=foreign_keys(1)".
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLiteFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "sqlite"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Rebind converts $N placeholders to SQLite's numbered ?N form.
func (d *SQLiteDialect) Rebind(query string) string {
	return strings.ReplaceAll(query, "$", "?")
}

func (d *SQLiteDialect) IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (d *SQLiteDialect) IsForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
