package sqldb

import (
	"context"
	"database/sql"
)

// Dialect abstracts the engine-specific seams: migration bootstrap,
// placeholder syntax and constraint-violation detection. Query text is
// otherwise shared and written with $N placeholders.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	// Rebind converts $N placeholders to the engine's syntax.
	Rebind(query string) string
	IsUniqueViolation(err error) bool
	IsForeignKeyViolation(err error) bool
}
