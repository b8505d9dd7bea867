package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crptmaveric/femilio-evidence/internal/migrate"
)

// newTestDB opens a fresh migrated and seeded database in a temp dir.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.Up(ctx, db.SQL))
	require.NoError(t, migrate.Seed(ctx, db.SQL))
	return db
}
