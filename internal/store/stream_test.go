package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(pairs ...string) []Field {
	out := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Field{Name: []byte(pairs[i]), Value: []byte(pairs[i+1])})
	}
	return out
}

func TestXAddExplicitIDRules(t *testing.T) {
	s := New()

	id, err := s.XAdd("s", "1-1", fields("f1", "v1"))
	require.NoError(t, err)
	assert.Equal(t, "1-1", id)

	_, err = s.XAdd("s", "1-1", fields("f1", "v1"))
	assert.ErrorContains(t, err, "equal or smaller")

	id, err = s.XAdd("s", "1-*", fields("f1", "v1"))
	require.NoError(t, err)
	assert.Equal(t, "1-2", id)

	_, err = s.XAdd("s", "0-0", fields("f", "v"))
	assert.ErrorContains(t, err, "greater than 0-0")
}

func TestXAddWrongType(t *testing.T) {
	s := New()
	_, err := s.RPush("s", []byte("v"))
	require.NoError(t, err)

	_, err = s.XAdd("s", "1-1", fields("f", "v"))
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestXRangeFullScan(t *testing.T) {
	s := New()
	_, err := s.XAdd("s", "1-1", fields("f", "v1"))
	require.NoError(t, err)
	_, err = s.XAdd("s", "1-2", fields("f", "v2"))
	require.NoError(t, err)
	_, err = s.XAdd("s", "2-1", fields("f", "v3"))
	require.NoError(t, err)

	entries, err := s.XRange("s", "-", "+")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "1-1", entries[0].ID)
	assert.Equal(t, "2-1", entries[2].ID)
}

func TestXRangeBareMsBounds(t *testing.T) {
	s := New()
	_, err := s.XAdd("s", "1-0", fields("f", "v1"))
	require.NoError(t, err)
	_, err = s.XAdd("s", "1-5", fields("f", "v2"))
	require.NoError(t, err)
	_, err = s.XAdd("s", "2-0", fields("f", "v3"))
	require.NoError(t, err)

	entries, err := s.XRange("s", "1", "1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1-0", entries[0].ID)
	assert.Equal(t, "1-5", entries[1].ID)
}

func TestXRangeAbsentKey(t *testing.T) {
	s := New()
	entries, err := s.XRange("missing", "-", "+")
	require.NoError(t, err)
	assert.Equal(t, []StreamEntry{}, entries)
}

func TestXReadScenario(t *testing.T) {
	s := New()
	_, err := s.XAdd("s1", "1-0", fields("f", "v"))
	require.NoError(t, err)

	results, err := s.XRead([]XReadQuery{{Key: "s1", After: "0-0"}, {Key: "s2", After: "0-0"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s1", results[0].Key)
	assert.Equal(t, "1-0", results[0].Entries[0].ID)
}

func TestXReadNoMatchesReturnsNil(t *testing.T) {
	s := New()
	results, err := s.XRead([]XReadQuery{{Key: "s1", After: "0-0"}, {Key: "s2", After: "0-0"}})
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestXReadAfterLastIDReturnsNothing(t *testing.T) {
	s := New()
	_, err := s.XAdd("s", "1-1", fields("f", "v1"))
	require.NoError(t, err)
	_, err = s.XAdd("s", "1-2", fields("f", "v2"))
	require.NoError(t, err)

	results, err := s.XRead([]XReadQuery{{Key: "s", After: "1-2"}})
	require.NoError(t, err)
	assert.Nil(t, results)

	results, err = s.XRead([]XReadQuery{{Key: "s", After: "1-1"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1-2", results[0].Entries[0].ID)
}

func TestXReadWrongType(t *testing.T) {
	s := New()
	s.Set("k", []byte("v"), time.Time{})

	_, err := s.XRead([]XReadQuery{{Key: "k", After: "0-0"}})
	assert.ErrorIs(t, err, ErrWrongType)
}
