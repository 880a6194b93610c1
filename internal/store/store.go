// Package store implements the shared keyspace (C4) and the BLPOP waiter
// registry (C5) behind one lock, exactly as the concurrency model requires:
// a push and the wake it triggers must be indivisible.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/flonle/rediskv/internal/store/streams"
)

// ErrWrongType is returned (never wrapped in a reply itself) when an
// operation targets a key holding a different value kind. Handlers turn it
// into a WRONGTYPE reply.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

type kind int

const (
	kindString kind = iota
	kindList
	kindStream
)

type record struct {
	kind kind

	str    []byte
	expiry time.Time // zero value means no expiry

	list [][]byte

	stream *streams.Stream
}

func (r *record) expired(now time.Time) bool {
	return r.kind == kindString && !r.expiry.IsZero() && !now.Before(r.expiry)
}

// Store holds the entire keyspace plus the waiters blocked on list keys.
// Every exported method locks mu for its whole critical section; none of
// them ever call back out to client code while holding it.
type Store struct {
	mu      sync.Mutex
	keys    map[string]*record
	waiters map[string][]*waiter
}

func New() *Store {
	return &Store{
		keys:    make(map[string]*record),
		waiters: make(map[string][]*waiter),
	}
}

// lookup returns the live record for key, purging it first if it is an
// expired string. The zero value (nil, false) means absent.
func (s *Store) lookup(key string) (*record, bool) {
	r, ok := s.keys[key]
	if !ok {
		return nil, false
	}
	if r.expired(time.Now()) {
		delete(s.keys, key)
		return nil, false
	}
	return r, true
}

// Get implements GET: bytes of a live StringValue, ok=false if the key is
// absent or expired, or ErrWrongType if it holds a different kind.
func (s *Store) Get(key string) (val []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		return nil, false, nil
	}
	if r.kind != kindString {
		return nil, false, ErrWrongType
	}
	return r.str, true, nil
}

// Set implements SET, unconditionally replacing whatever was at key
// regardless of its previous kind. A zero expiry means no expiry.
func (s *Store) Set(key string, val []byte, expiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[key] = &record{kind: kindString, str: val, expiry: expiry}
}

// Keys returns every live key in the keyspace, purging expired strings
// along the way. Not part of the core spec; kept because real clients
// (redis-cli included) probe it on connect.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	keys := make([]string, 0, len(s.keys))
	for k, r := range s.keys {
		if r.expired(now) {
			delete(s.keys, k)
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// Type implements TYPE, consulting lazy expiry along the way.
func (s *Store) Type(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		return "none"
	}
	switch r.kind {
	case kindString:
		return "string"
	case kindList:
		return "list"
	case kindStream:
		return "stream"
	default:
		return "none"
	}
}
