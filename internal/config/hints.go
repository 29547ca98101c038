package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"db-slice-export/internal/models"
)

// Hints file shape:
//
//	tables:
//	  source:
//	    - referred_table: revision
//	      referred_columns: [repository_id, sha]
//	      constrained_columns: [repository_id, revision_sha]
type hintsFile struct {
	Tables map[string][]models.ForeignKeyMeta `yaml:"tables"`
}

// LoadHints reads foreign key hints from a YAML file. An empty path means no
// hints.
func LoadHints(path string) (models.Hints, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hints file: %v", err)
	}

	var file hintsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse hints file %s: %v", path, err)
	}

	for table, fks := range file.Tables {
		for _, fk := range fks {
			if fk.ReferredTable == "" {
				return nil, fmt.Errorf("hint for table %s is missing referred_table", table)
			}
			if len(fk.ConstrainedColumns) == 0 || len(fk.ConstrainedColumns) != len(fk.ReferredColumns) {
				return nil, fmt.Errorf("hint %s -> %s has mismatched column lists", table, fk.ReferredTable)
			}
		}
	}

	return models.Hints(file.Tables), nil
}
