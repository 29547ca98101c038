package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"db-slice-export/internal/models"
)

// StatementRenderer turns one fetched row into a literal, executable insert
// statement. The engine treats rendering as opaque.
type StatementRenderer interface {
	RenderInsert(row models.Row) (models.Statement, error)
}

// MySQLRenderer renders inserts with MySQL quoting and escaping rules. The
// output is a standalone script, so values become literals rather than
// placeholders.
type MySQLRenderer struct{}

func NewMySQLRenderer() *MySQLRenderer {
	return &MySQLRenderer{}
}

func (r *MySQLRenderer) RenderInsert(row models.Row) (models.Statement, error) {
	columns := make([]string, len(row.Columns))
	values := make([]string, len(row.Columns))

	for i, col := range row.Columns {
		columns[i] = quoteIdent(col)

		lit, err := literal(row.Values[i])
		if err != nil {
			return models.Statement{}, fmt.Errorf("table %s, column %s: %v", row.Table, col, err)
		}
		values[i] = lit
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		quoteIdent(row.Table),
		strings.Join(columns, ", "),
		strings.Join(values, ", "),
	)

	return models.Statement{Table: row.Table, SQL: sql}, nil
}

func literal(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05") + "'", nil
	case []byte:
		return quoteString(string(val)), nil
	case string:
		return quoteString(val), nil
	default:
		return "", fmt.Errorf("cannot render value of type %T", v)
	}
}

var stringEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"'", "\\'",
	"\"", "\\\"",
	"\n", "\\n",
	"\r", "\\r",
	"\x00", "\\0",
	"\x1a", "\\Z",
)

func quoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}
