package models

import "fmt"

// Index is the relationship index: for every table its primary key, its
// outgoing foreign keys and the incoming keys of tables depending on it.
// Built once per export run and read-only afterwards.
type Index struct {
	tables map[string]*Table
}

// Hints maps a table name to foreign keys that exist at the application
// level but are not declared as database constraints. They merge into the
// table's foreign key list exactly like introspected constraints.
type Hints map[string][]ForeignKeyMeta

// NewIndex builds the relationship index from introspected metadata plus
// hinted foreign keys.
//
// Every table must have a primary key and every foreign key (hinted or not)
// must reference a known table; either violation fails the build, because an
// export through such a table could not identify or dedupe rows.
func NewIndex(metas []TableMeta, hints Hints) (*Index, error) {
	idx := &Index{tables: make(map[string]*Table, len(metas))}

	for _, meta := range metas {
		if len(meta.PrimaryKey) == 0 {
			return nil, fmt.Errorf("table %s has no primary key", meta.Name)
		}
		idx.tables[meta.Name] = &Table{
			Name:       meta.Name,
			PrimaryKey: meta.PrimaryKey,
		}
	}

	for table := range hints {
		if _, ok := idx.tables[table]; !ok {
			return nil, fmt.Errorf("foreign key hint for unknown table %s", table)
		}
	}

	for _, meta := range metas {
		table := idx.tables[meta.Name]

		fks := make([]ForeignKeyMeta, 0, len(meta.ForeignKeys)+len(hints[meta.Name]))
		fks = append(fks, meta.ForeignKeys...)
		fks = append(fks, hints[meta.Name]...)

		for _, fk := range fks {
			referred, ok := idx.tables[fk.ReferredTable]
			if !ok {
				return nil, fmt.Errorf("table %s: foreign key %s references unknown table %s",
					meta.Name, fk.ConstraintName, fk.ReferredTable)
			}
			if len(fk.ConstrainedColumns) == 0 || len(fk.ConstrainedColumns) != len(fk.ReferredColumns) {
				return nil, fmt.Errorf("table %s: foreign key %s has mismatched column lists",
					meta.Name, fk.ConstraintName)
			}

			table.ForeignKeys = append(table.ForeignKeys, &ForeignKey{
				ConstraintName:   fk.ConstraintName,
				Table:            referred,
				ForeignColumns:   fk.ReferredColumns,
				DependentColumns: fk.ConstrainedColumns,
			})

			// Reverse view accumulated on the referenced table. Pure
			// accumulation, so iteration order over tables does not
			// affect the final index.
			referred.DependentKeys = append(referred.DependentKeys, &DependentKey{
				Table:            table,
				DependentColumns: fk.ConstrainedColumns,
				ForeignColumns:   fk.ReferredColumns,
			})
		}
	}

	return idx, nil
}

// Table returns the named table, or nil if the schema does not contain it.
func (idx *Index) Table(name string) *Table {
	return idx.tables[name]
}

// PrimaryKey returns the ordered primary key columns of the named table.
func (idx *Index) PrimaryKey(name string) []string {
	if t := idx.tables[name]; t != nil {
		return t.PrimaryKey
	}
	return nil
}

// ForeignKeys returns the outgoing foreign keys of the named table.
func (idx *Index) ForeignKeys(name string) []*ForeignKey {
	if t := idx.tables[name]; t != nil {
		return t.ForeignKeys
	}
	return nil
}

// DependentKeys returns the incoming relationships of the named table.
func (idx *Index) DependentKeys(name string) []*DependentKey {
	if t := idx.tables[name]; t != nil {
		return t.DependentKeys
	}
	return nil
}

// TableNames returns the names of all indexed tables.
func (idx *Index) TableNames() []string {
	names := make([]string, 0, len(idx.tables))
	for name := range idx.tables {
		names = append(names, name)
	}
	return names
}
