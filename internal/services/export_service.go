package services

import (
	"context"
	"fmt"

	"db-slice-export/internal/models"
)

// ExportService computes referentially-complete slices: starting from seed
// rows it collects every row they reference and every row referencing them,
// recursively, and renders the result as an ordered list of insert
// statements in which each row precedes the rows that point at it.
type ExportService struct {
	schemaService *SchemaService
	fetcher       RowFetcher
	renderer      StatementRenderer
	hints         models.Hints
}

func NewExportService(schemaService *SchemaService, fetcher RowFetcher, renderer StatementRenderer, hints models.Hints) *ExportService {
	return &ExportService{
		schemaService: schemaService,
		fetcher:       fetcher,
		renderer:      renderer,
		hints:         hints,
	}
}

// Export runs one export. Every call builds a fresh relationship index and a
// fresh tracker, so the service is re-entrant and each run sees its own
// schema snapshot.
func (s *ExportService) Export(ctx context.Context, table string, keys [][]interface{}) ([]models.Statement, error) {
	index, err := s.schemaService.BuildIndex(ctx, s.hints)
	if err != nil {
		return nil, err
	}

	session := newExportSession(index, s.fetcher, s.renderer)
	return session.RelatedRows(ctx, table, keys)
}

// exportSession holds the state of a single run. The traversal uses an
// explicit frame stack rather than call-stack recursion, so row chains far
// deeper than the schema's FK diameter cannot exhaust the goroutine stack;
// the tracker doubles as the visited set that breaks cycles.
type exportSession struct {
	index      *models.Index
	tracker    *ExportTracker
	fetcher    RowFetcher
	renderer   StatementRenderer
	statements []models.Statement
}

func newExportSession(index *models.Index, fetcher RowFetcher, renderer StatementRenderer) *exportSession {
	return &exportSession{
		index:    index,
		tracker:  NewExportTracker(),
		fetcher:  fetcher,
		renderer: renderer,
	}
}

type frameKind int

const (
	// visitFrame records keys as seen and schedules the full treatment of
	// the fresh subset: foreign closure, own rows, then dependents.
	visitFrame frameKind = iota
	// foreignFrame walks the table's outgoing foreign keys one at a time,
	// pushing the referenced rows' emission underneath their own foreign
	// closure so dependencies always land first.
	foreignFrame
	// emitFrame fetches the rows for keys and renders their statements.
	emitFrame
	// dependentFrame walks the incoming relationships, re-entering the
	// full visit for every dependent row discovered.
	dependentFrame
)

type frame struct {
	kind  frameKind
	table *models.Table
	keys  [][]interface{}
	// next is the cursor into the foreign or dependent key list. Each key
	// is expanded only after the subtree of the previous one completed, so
	// a shared dependency discovered early is also emitted early.
	next int
}

// RelatedRows is the engine's single entry point: the ordered statements for
// the seed rows and everything transitively related to them. Keys already
// seen in this session are a no-op, so calling it again with overlapping
// seeds never duplicates a row.
func (s *exportSession) RelatedRows(ctx context.Context, table string, keys [][]interface{}) ([]models.Statement, error) {
	seed := s.index.Table(table)
	if seed == nil {
		return nil, fmt.Errorf("unknown table %s", table)
	}

	emitted := len(s.statements)
	stack := []frame{{kind: visitFrame, table: seed, keys: keys}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch f.kind {
		case visitFrame:
			if len(f.table.PrimaryKey) == 0 {
				return nil, fmt.Errorf("table %s has no primary key", f.table.Name)
			}
			fresh := s.tracker.RecordNew(f.table.Name, f.keys)
			if len(fresh) == 0 {
				continue
			}
			stack = append(stack,
				frame{kind: dependentFrame, table: f.table, keys: fresh},
				frame{kind: emitFrame, table: f.table, keys: fresh},
				frame{kind: foreignFrame, table: f.table, keys: fresh},
			)

		case foreignFrame:
			if f.next >= len(f.table.ForeignKeys) {
				continue
			}
			stack = append(stack, frame{kind: foreignFrame, table: f.table, keys: f.keys, next: f.next + 1})

			fk := f.table.ForeignKeys[f.next]
			tuples, err := s.fetcher.FetchColumns(ctx, f.table.Name, fk.DependentColumns, f.table.PrimaryKey, f.keys)
			if err != nil {
				return nil, err
			}
			fresh := s.tracker.RecordNew(fk.Table.Name, dropNullTuples(tuples))
			if len(fresh) == 0 {
				continue
			}
			stack = append(stack,
				frame{kind: emitFrame, table: fk.Table, keys: fresh},
				frame{kind: foreignFrame, table: fk.Table, keys: fresh},
			)

		case emitFrame:
			rows, err := s.fetcher.FetchRows(ctx, f.table.Name, f.table.PrimaryKey, f.keys)
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				stmt, err := s.renderer.RenderInsert(row)
				if err != nil {
					return nil, err
				}
				s.statements = append(s.statements, stmt)
			}

		case dependentFrame:
			if f.next >= len(f.table.DependentKeys) {
				continue
			}
			stack = append(stack, frame{kind: dependentFrame, table: f.table, keys: f.keys, next: f.next + 1})

			dk := f.table.DependentKeys[f.next]
			filterKeys, err := s.foreignColumnValues(ctx, f.table, dk.ForeignColumns, f.keys)
			if err != nil {
				return nil, err
			}
			if len(filterKeys) == 0 {
				continue
			}

			depKeys, err := s.fetcher.FetchColumns(ctx, dk.Table.Name, dk.Table.PrimaryKey, dk.DependentColumns, filterKeys)
			if err != nil {
				return nil, err
			}
			if len(depKeys) == 0 {
				continue
			}
			stack = append(stack, frame{kind: visitFrame, table: dk.Table, keys: depKeys})
		}
	}

	return s.statements[emitted:], nil
}

// foreignColumnValues resolves the values of columns for the rows identified
// by keys. When columns are the table's own primary key, the keys already
// are those values.
func (s *exportSession) foreignColumnValues(ctx context.Context, table *models.Table, columns []string, keys [][]interface{}) ([][]interface{}, error) {
	if equalColumns(columns, table.PrimaryKey) {
		return keys, nil
	}

	tuples, err := s.fetcher.FetchColumns(ctx, table.Name, columns, table.PrimaryKey, keys)
	if err != nil {
		return nil, err
	}
	return dropNullTuples(tuples), nil
}

// dropNullTuples removes tuples containing NULL: a NULL foreign key column
// references no row.
func dropNullTuples(tuples [][]interface{}) [][]interface{} {
	kept := tuples[:0]
	for _, tuple := range tuples {
		hasNull := false
		for _, v := range tuple {
			if v == nil {
				hasNull = true
				break
			}
		}
		if !hasNull {
			kept = append(kept, tuple)
		}
	}
	return kept
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
