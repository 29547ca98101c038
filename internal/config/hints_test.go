package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHints(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHints(t *testing.T) {
	path := writeHints(t, `
tables:
  source:
    - referred_table: revision
      referred_columns: [repository_id, sha]
      constrained_columns: [repository_id, revision_sha]
`)

	hints, err := LoadHints(path)
	require.NoError(t, err)

	require.Len(t, hints["source"], 1)
	fk := hints["source"][0]
	assert.Equal(t, "revision", fk.ReferredTable)
	assert.Equal(t, []string{"repository_id", "sha"}, fk.ReferredColumns)
	assert.Equal(t, []string{"repository_id", "revision_sha"}, fk.ConstrainedColumns)
}

func TestLoadHintsEmptyPath(t *testing.T) {
	hints, err := LoadHints("")
	require.NoError(t, err)
	assert.Nil(t, hints)
}

func TestLoadHintsMissingFile(t *testing.T) {
	_, err := LoadHints(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadHintsMismatchedColumns(t *testing.T) {
	path := writeHints(t, `
tables:
  source:
    - referred_table: revision
      referred_columns: [sha]
      constrained_columns: [repository_id, revision_sha]
`)

	_, err := LoadHints(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched column lists")
}

func TestLoadHintsMissingReferredTable(t *testing.T) {
	path := writeHints(t, `
tables:
  source:
    - referred_columns: [sha]
      constrained_columns: [revision_sha]
`)

	_, err := LoadHints(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing referred_table")
}
