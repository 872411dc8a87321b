package service_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/internal/core/store/drivers/sqlite"
	"github.com/wartahub/warta/pkg/cryptox"
)

// newTestStore opens a throwaway sqlite database with migrations applied.
// A file under t.TempDir() instead of :memory: so every pooled connection
// sees the same database.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_time_format=sqlite"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func usePepper(t *testing.T) {
	t.Helper()
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
}
