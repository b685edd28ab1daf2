// Package repotest opens throwaway in-memory databases for tests.
package repotest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/stretchr/testify/require"
)

var seq atomic.Uint64

// New returns migrated repositories over a private in-memory sqlite database
// that is closed when the test ends.
func New(t testing.TB) *repo.Repositories {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewDatabase(database.Database{
		Driver: database.DriverSQLite,
		SQLite: database.SQLiteConfig{
			Path: fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1)),
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repos := repo.NewRepositories(database.NewGormDB(db))
	require.NoError(t, repos.Migrate(context.Background()))
	return repos
}
