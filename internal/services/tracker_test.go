package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordNewReturnsOnlyUnseen(t *testing.T) {
	tracker := NewExportTracker()

	first := tracker.RecordNew("build", [][]interface{}{{"B1"}, {"B2"}})
	assert.Equal(t, [][]interface{}{{"B1"}, {"B2"}}, first)

	second := tracker.RecordNew("build", [][]interface{}{{"B2"}, {"B3"}})
	assert.Equal(t, [][]interface{}{{"B3"}}, second)

	assert.Empty(t, tracker.RecordNew("build", [][]interface{}{{"B1"}, {"B2"}, {"B3"}}))
}

func TestRecordNewIsPerTable(t *testing.T) {
	tracker := NewExportTracker()

	tracker.RecordNew("build", [][]interface{}{{"1"}})
	fresh := tracker.RecordNew("job", [][]interface{}{{"1"}})
	assert.Len(t, fresh, 1)
}

func TestRecordNewDeduplicatesWithinCall(t *testing.T) {
	tracker := NewExportTracker()

	fresh := tracker.RecordNew("build", [][]interface{}{{"B1"}, {"B1"}})
	assert.Equal(t, [][]interface{}{{"B1"}}, fresh)
}

func TestRecordNewCanonicalisesValues(t *testing.T) {
	tracker := NewExportTracker()

	// A seed arrives as the string "17", the same key scanned back from
	// the database arrives as int64.
	tracker.RecordNew("build", [][]interface{}{{"17"}})
	assert.Empty(t, tracker.RecordNew("build", [][]interface{}{{int64(17)}}))
}

func TestRecordNewCompositeKeys(t *testing.T) {
	tracker := NewExportTracker()

	fresh := tracker.RecordNew("revision", [][]interface{}{{"R1", "abc"}, {"R1", "def"}})
	assert.Len(t, fresh, 2)
	assert.Empty(t, tracker.RecordNew("revision", [][]interface{}{{"R1", "abc"}}))
}
