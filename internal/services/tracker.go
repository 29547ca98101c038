package services

import (
	"fmt"
	"strings"
)

// ExportTracker remembers, per table, which primary key tuples are already
// scheduled for export in the current run. It is the only mechanism that
// breaks foreign key cycles and prevents duplicate rows, and it lives for
// exactly one run.
type ExportTracker struct {
	seen map[string]map[string]struct{}
}

func NewExportTracker() *ExportTracker {
	return &ExportTracker{seen: make(map[string]map[string]struct{})}
}

// RecordNew returns the subset of keys not previously recorded for table and
// records that subset. Calling again with the same keys returns nothing.
func (t *ExportTracker) RecordNew(table string, keys [][]interface{}) [][]interface{} {
	tableSeen := t.seen[table]
	if tableSeen == nil {
		tableSeen = make(map[string]struct{})
		t.seen[table] = tableSeen
	}

	var fresh [][]interface{}
	for _, key := range keys {
		k := keyString(key)
		if _, ok := tableSeen[k]; ok {
			continue
		}
		tableSeen[k] = struct{}{}
		fresh = append(fresh, key)
	}

	return fresh
}

// keyString canonicalises a tuple so that a seed value given as the string
// "17" and the int64 17 scanned back from the database count as the same
// row.
func keyString(key []interface{}) string {
	parts := make([]string, len(key))
	for i, v := range key {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, "\x1f")
}
