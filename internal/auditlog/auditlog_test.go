package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(file string, imported int) Entry {
	return Entry{
		Timestamp:  time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		File:       file,
		Imported:   imported,
		Failed:     1,
		Matches:    3,
		Mismatches: imported,
		Invalid:    2,
	}
}

func TestAppendAndRead(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Append(root, []Entry{entry("jan.csv", 5)}))
	require.NoError(t, Append(root, []Entry{entry("feb.xlsx", 7)}))

	entries, err := Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "jan.csv", entries[0].File)
	assert.Equal(t, 5, entries[0].Imported)
	assert.Equal(t, 1, entries[0].Failed)
	assert.Equal(t, 3, entries[0].Matches)
	assert.Equal(t, 2, entries[0].Invalid)
	assert.Equal(t, "feb.xlsx", entries[1].File)
	assert.True(t, entries[0].Timestamp.Equal(entries[1].Timestamp))
}

func TestReadMissingLog(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"only", "three", "fields"})
	assert.ErrorContains(t, err, "expected 7 fields")

	row := MarshalEntry(entry("jan.csv", 5))
	row[colImported] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing field")
}
