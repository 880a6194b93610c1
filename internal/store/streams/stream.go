package streams

import "fmt"

// Stream is an append-only, strictly-increasing index of stream entries,
// backed by the radix tree in radix.go. Zero value is an empty stream ready
// to use.
type Stream struct {
	root      RxNode
	LastEntry Entry // LastEntry.Key is the zero Key until the first Put
}

// Put inserts val under key, which must be strictly greater than
// s.LastEntry.Key (the empty stream accepts any key). It never overwrites an
// existing entry; streams are append-only.
func (s *Stream) Put(key Key, val any) error {
	// An entry key is never 0-0 (XADD rejects it before calling Put), so
	// LastEntry.Key.IsZero() doubles as "nothing has been put yet".
	if !s.LastEntry.Key.IsZero() && !key.GreaterThan(s.LastEntry.Key) {
		return fmt.Errorf("key %s is not greater than last entry %s", key, s.LastEntry.Key)
	}
	node := s.root.create(key.internalRepr())
	node.entry = &Entry{Key: key, Val: val}
	s.LastEntry = *node.entry
	return nil
}

// Search returns the value stored under key, if any.
func (s *Stream) Search(key Key) (any, bool) {
	node, failIdx, _ := s.root.longestCommonPrefix(key.internalRepr())
	if failIdx != -1 {
		return nil, false
	}
	return node.entry.Val, true
}

// Range returns every entry with a key between from and to inclusive,
// ordered lowest to highest. An empty stream, or a range outside the
// stream's contents, returns an empty (non-nil) slice.
func (s *Stream) Range(from, to Key) []Entry {
	if s.LastEntry.Key.IsZero() {
		return []Entry{}
	}
	return s.root.rangeEntries(from.internalRepr(), to.internalRepr())
}

// After returns every entry strictly greater than after, ordered lowest to
// highest, the shape XREAD needs.
func (s *Stream) After(after Key) []Entry {
	next, overflow := after.Next()
	if overflow {
		return []Entry{}
	}
	return s.Range(next, MaxKey)
}

// Len reports how many entries the stream holds.
func (s *Stream) Len() int {
	return len(s.Range(MinKey, MaxKey))
}

// Next returns the key immediately following k under (LeftNr, RightNr)
// lexicographic order, reporting overflow at the maximum key.
func (k Key) Next() (Key, bool) {
	if k.RightNr < MaxUint64 {
		return Key{k.LeftNr, k.RightNr + 1}, false
	}
	if k.LeftNr < MaxUint64 {
		return Key{k.LeftNr + 1, 0}, false
	}
	return Key{}, true
}
