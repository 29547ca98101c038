package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	assert.Equal(t, []interface{}{"17"}, ParseKey("17"))
	assert.Equal(t, []interface{}{"R1", "abc123"}, ParseKey("R1,abc123"))
	assert.Equal(t, []interface{}{"R1", "abc123"}, ParseKey(" R1 , abc123 "))
}

func TestParseSeeds(t *testing.T) {
	seeds, err := ParseSeeds("build:17;job:3,4; ")
	require.NoError(t, err)

	require.Len(t, seeds, 2)
	assert.Equal(t, Seed{Table: "build", Keys: [][]interface{}{{"17"}}}, seeds[0])
	assert.Equal(t, Seed{Table: "job", Keys: [][]interface{}{{"3"}, {"4"}}}, seeds[1])
}

func TestParseSeedsEmpty(t *testing.T) {
	seeds, err := ParseSeeds("")
	require.NoError(t, err)
	assert.Empty(t, seeds)
}

func TestParseSeedsInvalid(t *testing.T) {
	for _, input := range []string{"build", "build:", ":17", "build:17,,18"} {
		_, err := ParseSeeds(input)
		assert.Error(t, err, "input %q", input)
	}
}
