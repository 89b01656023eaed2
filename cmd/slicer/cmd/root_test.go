package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/slicingpie/config"
	"github.com/rustyeddy/slicingpie/ledger"
	"github.com/rustyeddy/slicingpie/pie"
)

// The commands share package-level flag variables, so these tests run
// one after another.

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slicer.yaml")

	require.NoError(t, run(t, "config", "init", "-o", path))
	require.NoError(t, run(t, "config", "validate", "-f", path))

	c, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Engine, c.Engine)
}

func TestLedgerWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.sqlite")
	csvPath := filepath.Join(dir, "ledger.csv")

	require.NoError(t, run(t, "--db", db, "--log-level", "error",
		"founder", "add", "--id", "asha", "--name", "Asha", "--market", "160000", "--paid", "80000"))
	require.NoError(t, run(t, "--db", db, "--log-level", "error",
		"entry", "add", "-f", "asha", "-k", "cash", "-a", "1000", "--date", "2024-02-09"))
	require.NoError(t, run(t, "--db", db, "--log-level", "error",
		"entry", "add", "-f", "asha", "-k", "intellectual_property", "-a", "10", "--date", "2024-02-10"))

	err := run(t, "--db", db, "--log-level", "error",
		"entry", "add", "-f", "asha", "-k", "equity", "-a", "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, pie.ErrUnknownCategory)

	require.NoError(t, run(t, "--db", db, "--log-level", "error", "category", "set", "cash", "--multiplier", "6"))
	require.NoError(t, run(t, "--db", db, "--log-level", "error", "category", "list", "--admin", "--input"))
	require.NoError(t, run(t, "--db", db, "--log-level", "error", "report", "--format", "org"))
	require.NoError(t, run(t, "--db", db, "--log-level", "error", "entry", "export", "-o", csvPath))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	// Re-importing an export collides on ids and must store nothing.
	assert.Error(t, run(t, "--db", db, "--log-level", "error", "entry", "import", csvPath))

	store, err := ledger.NewSQLite(db)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4.0, entries[0].CategorySnapshot.Multiplier)
	require.NotNil(t, entries[1].CategorySnapshot.CalculatedSlices)
	assert.InDelta(t, 400.0, *entries[1].CategorySnapshot.CalculatedSlices, 1e-9)

	cats, err := store.ListCategories(context.Background())
	require.NoError(t, err)
	cash, ok := pie.FindCategory(cats, pie.Cash)
	require.True(t, ok)
	assert.Equal(t, 6.0, cash.Multiplier)
}

func TestReportUnknownFormat(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.sqlite")

	err := run(t, "--db", db, "--log-level", "error", "report", "--format", "xml", "--founder", "")
	assert.Error(t, err)
}
