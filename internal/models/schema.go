package models

// ForeignKeyMeta is one foreign key constraint as reported by schema
// introspection, or as supplied manually through a hints file. Constrained
// and referred column lists are parallel: ConstrainedColumns[i] holds a
// value of ReferredColumns[i].
type ForeignKeyMeta struct {
	ConstraintName     string   `json:"constraint_name,omitempty" yaml:"constraint_name,omitempty"`
	ReferredTable      string   `json:"referred_table" yaml:"referred_table"`
	ReferredColumns    []string `json:"referred_columns" yaml:"referred_columns"`
	ConstrainedColumns []string `json:"constrained_columns" yaml:"constrained_columns"`
}

// TableMeta is the raw introspection result for one table.
type TableMeta struct {
	Name        string           `json:"name"`
	PrimaryKey  []string         `json:"primary_key"`
	ForeignKeys []ForeignKeyMeta `json:"foreign_keys"`
}

// Table is one table inside a built Index.
type Table struct {
	Name          string
	PrimaryKey    []string
	ForeignKeys   []*ForeignKey
	DependentKeys []*DependentKey
}

// ForeignKey is an outgoing relationship: rows of the owning table hold
// DependentColumns whose values identify a row of Table by ForeignColumns.
type ForeignKey struct {
	ConstraintName   string
	Table            *Table
	ForeignColumns   []string
	DependentColumns []string
}

// DependentKey is the reverse view of a ForeignKey: Table holds
// DependentColumns pointing at the owning table's ForeignColumns.
type DependentKey struct {
	Table            *Table
	DependentColumns []string
	ForeignColumns   []string
}
