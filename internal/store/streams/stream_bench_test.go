package streams

import (
	"sync"
	"testing"

	"github.com/alphadose/haxmap"
	"github.com/armon/go-radix"
	"github.com/dghubble/trie"
)

// These benchmarks exist to justify keeping the custom radix tree in
// radix.go instead of reaching for a generic string-keyed trie or a plain
// map. None of armon/go-radix, dghubble/trie or alphadose/haxmap preserve
// the numeric ordering over (ms, seq) that XRANGE needs, so they're
// compared here on raw insert/search throughput only, never on range
// queries.

func BenchmarkStreamInsert(b *testing.B) {
	s := Stream{}
	for i := 0; i < b.N; i++ {
		_ = s.Put(testStreamKeys[i%len(testStreamKeys)], i)
	}
}

func BenchmarkStreamSearch(b *testing.B) {
	s := Stream{}
	for i, key := range testStreamKeys {
		_ = s.Put(key, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Search(testStreamKeys[i%len(testStreamKeys)])
	}
}

func BenchmarkGoRadixInsert(b *testing.B) {
	tree := radix.New()
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		tree.Insert(string(key.internalRepr()), i)
	}
}

func BenchmarkGoRadixSearch(b *testing.B) {
	tree := radix.New()
	for i, key := range testStreamKeys {
		tree.Insert(string(key.internalRepr()), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		tree.Get(string(key.internalRepr()))
	}
}

func BenchmarkDghubbleTrieInsert(b *testing.B) {
	tr := trie.NewPathTrie()
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		tr.Put(string(key.internalRepr()), i)
	}
}

func BenchmarkDghubbleTrieSearch(b *testing.B) {
	tr := trie.NewPathTrie()
	for i, key := range testStreamKeys {
		tr.Put(string(key.internalRepr()), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		tr.Get(string(key.internalRepr()))
	}
}

func BenchmarkHaxmapInsert(b *testing.B) {
	m := haxmap.New[string, int]()
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		m.Set(string(key.internalRepr()), i)
	}
}

func BenchmarkHaxmapSearch(b *testing.B) {
	m := haxmap.New[string, int]()
	for i, key := range testStreamKeys {
		m.Set(string(key.internalRepr()), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		m.Get(string(key.internalRepr()))
	}
}

func BenchmarkSyncMapInsert(b *testing.B) {
	var m sync.Map
	for i := 0; i < b.N; i++ {
		key := testStreamKeys[i%len(testStreamKeys)]
		m.Store(key, i)
	}
}
