package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"db-slice-export/internal/models"
)

func TestRenderInsertLiterals(t *testing.T) {
	renderer := NewMySQLRenderer()

	stmt, err := renderer.RenderInsert(models.Row{
		Table:   "job",
		Columns: []string{"id", "label", "duration", "passed", "finished_at", "notes"},
		Values: []interface{}{
			int64(42),
			"O'Reilly \"quoted\"\nline",
			3.5,
			true,
			time.Date(2014, 3, 2, 10, 30, 0, 0, time.UTC),
			nil,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "job", stmt.Table)
	assert.Equal(t,
		"INSERT INTO `job` (`id`, `label`, `duration`, `passed`, `finished_at`, `notes`) "+
			"VALUES (42, 'O\\'Reilly \\\"quoted\\\"\\nline', 3.5, 1, '2014-03-02 10:30:00', NULL);",
		stmt.SQL)
}

func TestRenderInsertEscapesBackslashes(t *testing.T) {
	renderer := NewMySQLRenderer()

	stmt, err := renderer.RenderInsert(models.Row{
		Table:   "logchunk",
		Columns: []string{"id", "text"},
		Values:  []interface{}{"L1", `C:\temp\out`},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `logchunk` (`id`, `text`) VALUES ('L1', 'C:\\\\temp\\\\out');", stmt.SQL)
}

func TestRenderInsertUnsupportedTypeFails(t *testing.T) {
	renderer := NewMySQLRenderer()

	_, err := renderer.RenderInsert(models.Row{
		Table:   "job",
		Columns: []string{"id", "payload"},
		Values:  []interface{}{"J1", struct{ X int }{1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload")
}

func TestQuoteStringControlCharacters(t *testing.T) {
	assert.Equal(t, `'a\0b\Zc'`, quoteString("a\x00b\x1ac"))
}
