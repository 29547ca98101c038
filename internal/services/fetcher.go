package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"db-slice-export/internal/models"
)

// RowFetcher is the engine's read capability: full rows for rendering, and
// bare column tuples for discovering related keys without materializing
// rows.
type RowFetcher interface {
	FetchRows(ctx context.Context, table string, pkColumns []string, keys [][]interface{}) ([]models.Row, error)
	FetchColumns(ctx context.Context, table string, columns, filterColumns []string, keys [][]interface{}) ([][]interface{}, error)
}

// MySQLFetcher reads from a MySQL database through database/sql.
type MySQLFetcher struct {
	db *sql.DB
}

func NewMySQLFetcher(db *sql.DB) *MySQLFetcher {
	return &MySQLFetcher{db: db}
}

// FetchRows returns the rows of table whose primary key tuples are in keys,
// ordered by primary key so output is deterministic.
func (f *MySQLFetcher) FetchRows(ctx context.Context, table string, pkColumns []string, keys [][]interface{}) ([]models.Row, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select("*").
		From(quoteIdent(table)).
		Where(tuplePredicate(pkColumns, keys)).
		OrderBy(quoteIdents(pkColumns)...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build row query for %s: %v", table, err)
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from %s: %v", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []models.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}

		results = append(results, models.Row{Table: table, Columns: columns, Values: values})
	}

	return results, rows.Err()
}

// FetchColumns returns the distinct tuples of columns from table for the
// rows whose filterColumns match one of keys.
func (f *MySQLFetcher) FetchColumns(ctx context.Context, table string, columns, filterColumns []string, keys [][]interface{}) ([][]interface{}, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select(quoteIdents(columns)...).
		Distinct().
		From(quoteIdent(table)).
		Where(tuplePredicate(filterColumns, keys)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build column query for %s: %v", table, err)
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch columns from %s: %v", table, err)
	}
	defer rows.Close()

	var tuples [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}

		tuples = append(tuples, values)
	}

	return tuples, rows.Err()
}

// tuplePredicate builds "col IN (...)" for single-column keys and an OR of
// per-tuple equalities for composite keys.
func tuplePredicate(columns []string, keys [][]interface{}) sq.Sqlizer {
	if len(columns) == 1 {
		values := make([]interface{}, len(keys))
		for i, key := range keys {
			values[i] = key[0]
		}
		return sq.Eq{quoteIdent(columns[0]): values}
	}

	or := make(sq.Or, 0, len(keys))
	for _, key := range keys {
		eq := make(sq.Eq, len(columns))
		for i, col := range columns {
			eq[quoteIdent(col)] = key[i]
		}
		or = append(or, eq)
	}
	return or
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteIdents(names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return quoted
}
