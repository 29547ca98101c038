package models

import (
	"fmt"
	"strings"
	"time"
)

// Row is one fetched row with its columns in select order, so rendered
// statements come out deterministic.
type Row struct {
	Table   string
	Columns []string
	Values  []interface{}
}

// Statement is one rendered, executable insert for exactly one row.
type Statement struct {
	Table string `json:"table"`
	SQL   string `json:"sql"`
}

// Seed is the starting point of an export: a table plus the primary key
// tuples of the rows to slice around.
type Seed struct {
	Table string
	Keys  [][]interface{}
}

// ParseKey splits a single key argument into a primary key tuple. A
// composite key is written as comma-separated column values.
func ParseKey(s string) []interface{} {
	parts := strings.Split(s, ",")
	key := make([]interface{}, len(parts))
	for i, p := range parts {
		key[i] = strings.TrimSpace(p)
	}
	return key
}

// ParseSeeds parses the scheduled-seed list from configuration, e.g.
// "build:17;job:3,4". Entries are separated by semicolons, keys by commas;
// each key is a single-column primary key value.
func ParseSeeds(s string) ([]Seed, error) {
	var seeds []Seed

	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		table, list, found := strings.Cut(entry, ":")
		table = strings.TrimSpace(table)
		if !found || table == "" || strings.TrimSpace(list) == "" {
			return nil, fmt.Errorf("invalid seed entry %q, expected table:key[,key...]", entry)
		}

		seed := Seed{Table: table}
		for _, key := range strings.Split(list, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("invalid seed entry %q, empty key", entry)
			}
			seed.Keys = append(seed.Keys, []interface{}{key})
		}
		seeds = append(seeds, seed)
	}

	return seeds, nil
}

// ExportStatus tracks the outcome of the latest scheduled export of a seed.
type ExportStatus struct {
	Seed           string    `json:"seed"`
	Statements     int       `json:"statements"`
	OutputFile     string    `json:"output_file,omitempty"`
	LastExportTime time.Time `json:"last_export_time"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}
