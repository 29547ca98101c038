package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetas() []TableMeta {
	return []TableMeta{
		{Name: "project", PrimaryKey: []string{"id"}},
		{Name: "build", PrimaryKey: []string{"id"}, ForeignKeys: []ForeignKeyMeta{
			{ConstraintName: "build_project_fk", ReferredTable: "project", ReferredColumns: []string{"id"}, ConstrainedColumns: []string{"project_id"}},
		}},
		{Name: "job", PrimaryKey: []string{"id"}, ForeignKeys: []ForeignKeyMeta{
			{ConstraintName: "job_build_fk", ReferredTable: "build", ReferredColumns: []string{"id"}, ConstrainedColumns: []string{"build_id"}},
		}},
	}
}

func TestNewIndexBuildsRelationships(t *testing.T) {
	index, err := NewIndex(testMetas(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"id"}, index.PrimaryKey("build"))

	fks := index.ForeignKeys("build")
	require.Len(t, fks, 1)
	assert.Equal(t, "project", fks[0].Table.Name)
	assert.Equal(t, []string{"id"}, fks[0].ForeignColumns)
	assert.Equal(t, []string{"project_id"}, fks[0].DependentColumns)
	assert.Same(t, index.Table("project"), fks[0].Table)

	// Dependent keys are the reverse view, accumulated on the referenced
	// table.
	deps := index.DependentKeys("build")
	require.Len(t, deps, 1)
	assert.Equal(t, "job", deps[0].Table.Name)
	assert.Equal(t, []string{"build_id"}, deps[0].DependentColumns)
	assert.Equal(t, []string{"id"}, deps[0].ForeignColumns)

	assert.Empty(t, index.ForeignKeys("project"))
	assert.Empty(t, index.DependentKeys("job"))
}

func TestNewIndexOrderIndependent(t *testing.T) {
	metas := testMetas()
	reversed := []TableMeta{metas[2], metas[1], metas[0]}

	index, err := NewIndex(reversed, nil)
	require.NoError(t, err)

	require.Len(t, index.DependentKeys("project"), 1)
	assert.Equal(t, "build", index.DependentKeys("project")[0].Table.Name)
}

func TestNewIndexMergesHints(t *testing.T) {
	metas := []TableMeta{
		{Name: "source", PrimaryKey: []string{"id"}},
		{Name: "revision", PrimaryKey: []string{"repository_id", "sha"}},
	}
	hints := Hints{
		"source": {
			{ReferredTable: "revision", ReferredColumns: []string{"repository_id", "sha"}, ConstrainedColumns: []string{"repository_id", "revision_sha"}},
		},
	}

	index, err := NewIndex(metas, hints)
	require.NoError(t, err)

	fks := index.ForeignKeys("source")
	require.Len(t, fks, 1)
	assert.Equal(t, "revision", fks[0].Table.Name)
	assert.Equal(t, []string{"repository_id", "revision_sha"}, fks[0].DependentColumns)

	deps := index.DependentKeys("revision")
	require.Len(t, deps, 1)
	assert.Equal(t, "source", deps[0].Table.Name)
}

func TestNewIndexMissingPrimaryKey(t *testing.T) {
	metas := append(testMetas(), TableMeta{Name: "logchunk"})

	_, err := NewIndex(metas, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logchunk has no primary key")
}

func TestNewIndexUnknownReferencedTable(t *testing.T) {
	metas := []TableMeta{
		{Name: "build", PrimaryKey: []string{"id"}, ForeignKeys: []ForeignKeyMeta{
			{ConstraintName: "build_project_fk", ReferredTable: "project", ReferredColumns: []string{"id"}, ConstrainedColumns: []string{"project_id"}},
		}},
	}

	_, err := NewIndex(metas, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table project")
}

func TestNewIndexHintForUnknownTable(t *testing.T) {
	hints := Hints{
		"missing": {
			{ReferredTable: "project", ReferredColumns: []string{"id"}, ConstrainedColumns: []string{"project_id"}},
		},
	}

	_, err := NewIndex(testMetas(), hints)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table missing")
}

func TestNewIndexMismatchedColumnLists(t *testing.T) {
	metas := []TableMeta{
		{Name: "project", PrimaryKey: []string{"id"}},
		{Name: "build", PrimaryKey: []string{"id"}, ForeignKeys: []ForeignKeyMeta{
			{ConstraintName: "broken_fk", ReferredTable: "project", ReferredColumns: []string{"id"}, ConstrainedColumns: []string{"project_id", "extra"}},
		}},
	}

	_, err := NewIndex(metas, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched column lists")
}

func TestIndexAbsentTable(t *testing.T) {
	index, err := NewIndex(testMetas(), nil)
	require.NoError(t, err)

	assert.Nil(t, index.Table("nonexistent"))
	assert.Nil(t, index.PrimaryKey("nonexistent"))
	assert.Nil(t, index.ForeignKeys("nonexistent"))
	assert.Nil(t, index.DependentKeys("nonexistent"))
}
