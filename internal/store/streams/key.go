// Package streams implements the append-only, strictly-increasing entry
// index a STREAM key needs: XADD ID resolution, and ordered range queries for
// XRANGE/XREAD.
//
// The index is a compressed bitwise trie ("Array Mapped Tree" with single-
// child compression, i.e. a radix tree) over a fixed-width internal key, not
// a generic string radix. A stream ID "123-456" is two base-10 numbers; a
// generic string-keyed trie (github.com/armon/go-radix,
// github.com/dghubble/trie — both benchmarked in stream_bench_test.go)
// would order "10-0" before "9-0" lexicographically, which is wrong. Each
// number is instead re-expressed as eleven base-64 digits (enough to cover
// the full uint64 range), so that byte-wise trie order and numeric order
// coincide, and the two eleven-digit halves are concatenated into one
// 22-symbol internal key. See radix.go for the trie itself.
package streams

import (
	"errors"
	"strconv"
	"time"
)

// Key identifies a stream entry as the pair of base-10 numbers Redis writes
// as "<ms>-<seq>".
type Key struct {
	LeftNr  uint64
	RightNr uint64
}

type rxChar = uint8
type internalKey = []rxChar

const MaxUint64 = ^uint64(0)

// MinKey and MaxKey bound every possible Key; they back "-" and "+" in XRANGE.
var MinKey = Key{0, 0}
var MaxKey = Key{MaxUint64, MaxUint64}

// NewKey parses a stream entry ID expression against lastUsed, the last ID
// written to the stream, resolving "*" and "<ms>-*" wildcards as XADD requires.
func NewKey(expr string, lastUsed Key) (Key, error) {
	left, right, err := parseEntryKey(expr, lastUsed)
	if err != nil {
		return Key{}, err
	}
	return Key{left, right}, nil
}

func (k Key) String() string {
	return strconv.FormatUint(k.LeftNr, 10) + "-" + strconv.FormatUint(k.RightNr, 10)
}

// compare orders k against k2 under the lexicographic order on
// (LeftNr, RightNr): negative if k sorts first, positive if k2 does, zero if
// equal.
func (k Key) compare(k2 Key) int {
	switch {
	case k.LeftNr != k2.LeftNr:
		if k.LeftNr < k2.LeftNr {
			return -1
		}
		return 1
	case k.RightNr != k2.RightNr:
		if k.RightNr < k2.RightNr {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// GreaterThan reports whether k sorts after k2.
func (k Key) GreaterThan(k2 Key) bool { return k.compare(k2) > 0 }

// LesserThan reports whether k sorts before k2.
func (k Key) LesserThan(k2 Key) bool { return k.compare(k2) < 0 }

// IsZero reports whether k is the reserved 0-0 ID, which XADD never accepts.
func (k Key) IsZero() bool {
	return k.LeftNr == 0 && k.RightNr == 0
}

// parseEntryKey parses a stream entry key expression, e.g. "123-456", into
// its two numbers. Streamkeys always denote base 10.
//
//   - "-" is the lowest possible key, "+" the highest.
//   - "*" auto-generates from the wall clock, like XADD's bare "*".
//   - "<ms>-*" auto-generates the sequence number against lastUsed.
//   - A bare "<ms>" (no hyphen) is returned as (ms, 0); callers that need
//     XRANGE's "end defaults to (ms, +inf)" behavior adjust RightNr themselves.
func parseEntryKey(expr string, lastUsed Key) (uint64, uint64, error) {
	switch expr {
	case "-":
		return 0, 0, nil
	case "+":
		return MaxUint64, MaxUint64, nil
	case "*":
		ms := uint64(time.Now().UnixMilli())
		seq := uint64(0)
		if ms == lastUsed.LeftNr {
			seq = lastUsed.RightNr + 1
		}
		return ms, seq, nil
	}

	addDigit := func(total uint64, char rune) (uint64, error) {
		const maxBase = MaxUint64 / 10
		if char < '0' || char > '9' {
			return 0, errors.New("invalid stream entry key")
		}
		if total > maxBase {
			return 0, errors.New("stream entry key overflows uint64")
		}
		next := total*10 + uint64(char-'0')
		if next < total*10 {
			return 0, errors.New("stream entry key overflows uint64")
		}
		return next, nil
	}

	var left, right uint64
	var err error
	hyphen := -1
	for i, char := range expr {
		if char == '-' {
			hyphen = i
			break
		}
		left, err = addDigit(left, char)
		if err != nil {
			return 0, 0, err
		}
	}
	if hyphen == -1 {
		return left, 0, nil // bare "<ms>"
	}

	rest := expr[hyphen+1:]
	if rest == "*" {
		if left == lastUsed.LeftNr {
			right = lastUsed.RightNr + 1
		}
		return left, right, nil
	}
	for _, char := range rest {
		right, err = addDigit(right, char)
		if err != nil {
			return 0, 0, err
		}
	}
	return left, right, nil
}

// internalRepr returns the fixed-width, 22-symbol trie key for k. Every
// symbol is between 0 and 63 inclusive.
func (k Key) internalRepr() internalKey {
	buf := make([]uint8, 22)
	toBase64(buf[:11], k.LeftNr)
	toBase64(buf[11:], k.RightNr)
	return buf
}

// toBase64 writes val into buf as a big-endian base-64 number, one trie
// symbol per byte.
func toBase64(buf []uint8, val uint64) {
	i := len(buf)
	for val >= 64 {
		i--
		buf[i] = uint8(val & 63)
		val >>= 6
	}
	i--
	buf[i] = uint8(val)
}
