package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/flonle/rediskv/internal/store/streams"
)

// Field is one (name, value) pair from an XADD call, kept in insertion order.
type Field struct {
	Name  []byte
	Value []byte
}

// StreamEntry is a resolved stream record as XRANGE/XREAD hand it to the
// handler layer: the concrete "<ms>-<seq>" ID and its fields.
type StreamEntry struct {
	ID     string
	Fields []Field
}

// XAdd implements XADD and its ID-resolution rules (§4.4.1): creates the
// stream if absent, resolves idSpec against the stream's last entry, and
// appends atomically.
func (s *Store) XAdd(key, idSpec string, fields []Field) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		r = &record{kind: kindStream, stream: &streams.Stream{}}
		s.keys[key] = r
	} else if r.kind != kindStream {
		return "", ErrWrongType
	}

	last := r.stream.LastEntry.Key
	id, err := streams.NewKey(idSpec, last)
	if err != nil {
		return "", errors.New("ERR Invalid stream ID specified as stream command argument")
	}

	if id.IsZero() {
		return "", errors.New("ERR The ID specified in XADD must be greater than 0-0")
	}
	if !last.IsZero() && !id.GreaterThan(last) {
		return "", errors.New("ERR The ID specified in XADD is equal or smaller than the target stream top item")
	}

	if err := r.stream.Put(id, fields); err != nil {
		return "", errors.New("ERR The ID specified in XADD is equal or smaller than the target stream top item")
	}
	return id.String(), nil
}

// XRange implements XRANGE: inclusive both ends, with "-"/"+" bounding the
// whole keyspace and a bare "<ms>" on end widened to (ms, +inf).
func (s *Store) XRange(key, startExpr, endExpr string) ([]StreamEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		return []StreamEntry{}, nil
	}
	if r.kind != kindStream {
		return nil, ErrWrongType
	}

	from, err := parseRangeBound(startExpr, false)
	if err != nil {
		return nil, err
	}
	to, err := parseRangeBound(endExpr, true)
	if err != nil {
		return nil, err
	}

	return toStreamEntries(r.stream.Range(from, to)), nil
}

// XReadQuery is one (key, after) pair from an XREAD STREAMS clause.
type XReadQuery struct {
	Key   string
	After string
}

// XReadResult is a stream that had matching entries.
type XReadResult struct {
	Key     string
	Entries []StreamEntry
}

// XRead implements XREAD: per query, entries strictly after the given ID; a
// bare "<ms>" means only later millisecond buckets match. Streams with no
// matches are omitted; a nil result (not an error) means none matched at all.
func (s *Store) XRead(queries []XReadQuery) ([]XReadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]XReadResult, 0, len(queries))
	for _, q := range queries {
		r, found := s.lookup(q.Key)
		if !found {
			continue
		}
		if r.kind != kindStream {
			return nil, ErrWrongType
		}

		after, err := parseRangeBound(q.After, true)
		if err != nil {
			return nil, err
		}

		entries := toStreamEntries(r.stream.After(after))
		if len(entries) == 0 {
			continue
		}
		results = append(results, XReadResult{Key: q.Key, Entries: entries})
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results, nil
}

func toStreamEntries(entries []streams.Entry) []StreamEntry {
	out := make([]StreamEntry, len(entries))
	for i, e := range entries {
		out[i] = StreamEntry{ID: e.Key.String(), Fields: e.Val.([]Field)}
	}
	return out
}

// parseRangeBound resolves an XRANGE/XREAD bound expression. Unlike XADD's
// id_spec, range bounds never carry "*" wildcards: "-" and "+" bound the
// whole keyspace, a bare "<ms>" widens to (ms, 0) on the low side or
// (ms, +inf) on the high side, and "<ms>-<seq>" is exact.
func parseRangeBound(expr string, isEnd bool) (streams.Key, error) {
	switch expr {
	case "-":
		return streams.MinKey, nil
	case "+":
		return streams.MaxKey, nil
	}

	ms, seq, hasSeq := strings.Cut(expr, "-")
	left, err := strconv.ParseUint(ms, 10, 64)
	if err != nil {
		return streams.Key{}, errors.New("ERR Invalid stream ID specified as stream command argument")
	}
	if !hasSeq {
		if isEnd {
			return streams.Key{LeftNr: left, RightNr: streams.MaxUint64}, nil
		}
		return streams.Key{LeftNr: left, RightNr: 0}, nil
	}

	right, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return streams.Key{}, errors.New("ERR Invalid stream ID specified as stream command argument")
	}
	return streams.Key{LeftNr: left, RightNr: right}, nil
}
