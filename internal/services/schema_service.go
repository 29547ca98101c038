package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"db-slice-export/internal/models"
)

// SchemaService reads primary and foreign key metadata from the source
// database's information_schema and assembles the relationship index the
// traversal engine runs on.
type SchemaService struct {
	db *sql.DB
}

func NewSchemaService(db *sql.DB) *SchemaService {
	return &SchemaService{db: db}
}

// BuildIndex introspects every base table and builds the relationship index,
// merging in the hinted foreign keys.
func (s *SchemaService) BuildIndex(ctx context.Context, hints models.Hints) (*models.Index, error) {
	metas, err := s.Introspect(ctx)
	if err != nil {
		return nil, err
	}

	return models.NewIndex(metas, hints)
}

// Introspect returns the raw key metadata for every base table in the
// connected schema.
func (s *SchemaService) Introspect(ctx context.Context) ([]models.TableMeta, error) {
	tables, err := s.GetAllTables(ctx)
	if err != nil {
		return nil, err
	}

	metas := make([]models.TableMeta, 0, len(tables))
	for _, table := range tables {
		pk, err := s.GetPrimaryKey(ctx, table)
		if err != nil {
			return nil, err
		}

		fks, err := s.GetForeignKeys(ctx, table)
		if err != nil {
			return nil, err
		}

		metas = append(metas, models.TableMeta{
			Name:        table,
			PrimaryKey:  pk,
			ForeignKeys: fks,
		})
	}

	return metas, nil
}

func (s *SchemaService) GetAllTables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT TABLE_NAME
	          FROM information_schema.TABLES
	          WHERE TABLE_SCHEMA = DATABASE()
	          AND TABLE_TYPE = 'BASE TABLE'
	          ORDER BY TABLE_NAME`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %v", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// GetPrimaryKey returns the ordered primary key columns of a table. A table
// without one yields an empty list; the index build rejects it.
func (s *SchemaService) GetPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT COLUMN_NAME
	          FROM information_schema.KEY_COLUMN_USAGE
	          WHERE TABLE_SCHEMA = DATABASE()
	          AND TABLE_NAME = ?
	          AND CONSTRAINT_NAME = 'PRIMARY'
	          ORDER BY ORDINAL_POSITION`

	rows, err := s.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get primary key for %s: %v", tableName, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}

	return columns, rows.Err()
}

// GetForeignKeys returns the foreign key constraints of a table, with
// composite constraints grouped into ordered column lists.
func (s *SchemaService) GetForeignKeys(ctx context.Context, tableName string) ([]models.ForeignKeyMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT
	            kcu.CONSTRAINT_NAME,
	            kcu.COLUMN_NAME,
	            kcu.REFERENCED_TABLE_NAME,
	            kcu.REFERENCED_COLUMN_NAME
	          FROM information_schema.KEY_COLUMN_USAGE kcu
	          WHERE kcu.TABLE_SCHEMA = DATABASE()
	          AND kcu.TABLE_NAME = ?
	          AND kcu.REFERENCED_TABLE_NAME IS NOT NULL
	          ORDER BY kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`

	rows, err := s.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get foreign keys for %s: %v", tableName, err)
	}
	defer rows.Close()

	var fks []models.ForeignKeyMeta
	for rows.Next() {
		var constraint, column, refTable, refColumn string
		if err := rows.Scan(&constraint, &column, &refTable, &refColumn); err != nil {
			return nil, err
		}

		// Rows arrive ordered by constraint name, so columns of a
		// composite key accumulate onto the last entry.
		if n := len(fks); n > 0 && fks[n-1].ConstraintName == constraint {
			fks[n-1].ConstrainedColumns = append(fks[n-1].ConstrainedColumns, column)
			fks[n-1].ReferredColumns = append(fks[n-1].ReferredColumns, refColumn)
			continue
		}

		fks = append(fks, models.ForeignKeyMeta{
			ConstraintName:     constraint,
			ReferredTable:      refTable,
			ReferredColumns:    []string{refColumn},
			ConstrainedColumns: []string{column},
		})
	}

	return fks, rows.Err()
}
