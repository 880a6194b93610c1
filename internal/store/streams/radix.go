package streams

import (
	"math/bits"
)

// RxNode is one node of the compressed bitwise trie described in key.go.
//
// Each internal node has a bitmap denoting which of the 64 possible child
// symbols are present. Given a symbol, a population count over the bits
// before it gives the symbol's index into children. Single-child runs are
// compressed into extraChars so the tree never grows deeper than necessary.
type RxNode struct {
	entry      *Entry // only leaves carry an entry
	bitmap     uint64
	extraChars []uint8 // compressed run of internal-key symbols below this node
	children   []RxNode
}

// Entry is one key-value pair stored in the trie.
type Entry struct {
	Key Key
	Val any
}

// side picks a traversal direction for the two range-query helpers below.
type side int

const (
	lowSide side = iota
	highSide
)

// longestCommonPrefix finds the node with the longest common prefix with key.
//
// When failIdx is -1, bestMatch is an exact match (and, since the tree's
// depth always equals len(key), a leaf). Otherwise bestMatch has no child for
// key[failIdx]; extraFailIdx additionally says whether the mismatch happened
// while walking a compressed run (and where), or at an uncompressed branch.
func (n *RxNode) longestCommonPrefix(key internalKey) (bestMatch *RxNode, failIdx int, extraFailIdx int) {
	node := n
	for depth := 0; ; depth++ {
		for i, char := range node.extraChars {
			if char != key[depth+i] {
				return node, depth + i, i
			}
		}
		depth += len(node.extraChars)

		if depth == len(key) {
			return node, -1, -1
		}

		sym := key[depth]
		if node.bitmap&(uint64(1)<<sym) == 0 {
			return node, depth, -1
		}
		node = &node.children[childAt(node.bitmap, sym)]
	}
}

// create returns the node for key, creating and, where necessary, splitting
// compressed nodes along the way.
func (n *RxNode) create(key internalKey) *RxNode {
	node, failIdx, extraFailIdx := n.longestCommonPrefix(key)
	if failIdx == -1 {
		return node
	}

	var newNode *RxNode
	if extraFailIdx == -1 {
		newNode = node.addChild(key[failIdx])
	} else {
		newNode = node.splitAt(extraFailIdx, key[failIdx])
	}

	if tail := key[failIdx+1:]; len(tail) > 0 {
		newNode.extraChars = append([]uint8(nil), tail...)
	}
	return newNode
}

// addChild inserts a fresh, empty child for sym into n's bitmap and returns
// a pointer to it. n must not already have a child for sym.
func (n *RxNode) addChild(sym uint8) *RxNode {
	n.bitmap |= uint64(1) << sym
	idx := childAt(n.bitmap, sym)
	n.insertChildAt(idx)
	return &n.children[idx]
}

// splitAt breaks n's compressed run at extraChars[splitIdx] and turns n into
// a two-way branch: one side keeps the run's remainder (the part after the
// split point), the other is a fresh node for sym. It returns the fresh node.
func (n *RxNode) splitAt(splitIdx int, sym uint8) *RxNode {
	remainder := *n
	remainder.extraChars = n.extraChars[splitIdx+1:]
	// Sharing n.extraChars' backing array is safe: this structure is
	// append-only, so extraChars is never mutated once set, only split.

	remainderSym := n.extraChars[splitIdx]

	var newNode *RxNode
	if sym > remainderSym {
		n.children = []RxNode{remainder, {}}
		newNode = &n.children[1]
	} else {
		n.children = []RxNode{{}, remainder}
		newNode = &n.children[0]
	}

	n.extraChars = n.extraChars[:splitIdx]
	n.bitmap = uint64(1)<<remainderSym | uint64(1)<<sym
	n.entry = nil
	return newNode
}

// insertChildAt grows n.children by one slot at idx, shifting later children
// up to make room.
func (n *RxNode) insertChildAt(idx int) {
	n.children = append(n.children, RxNode{})
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = RxNode{}
}

// rangeEntries returns entries under n with a key between fromKey and toKey
// inclusive, ordered lowest to highest.
func (n *RxNode) rangeEntries(fromKey, toKey internalKey) []Entry {
	node := n
	for depth := 0; ; depth++ {
		for i, char := range node.extraChars {
			fromSym, toSym := fromKey[depth+i], toKey[depth+i]

			switch {
			case fromSym == toSym && toSym == char:
				continue
			case fromSym == toSym:
				return []Entry{}
			case fromSym < char && char < toSym:
				return node.getAllLeaves()
			case char < fromSym || toSym < char:
				return []Entry{}
			case char == fromSym:
				return node.sideEntries(fromKey[depth:], highSide)
			case char == toSym:
				return node.sideEntries(toKey[depth:], lowSide)
			}
		}
		depth += len(node.extraChars)

		if depth == len(fromKey) {
			return []Entry{*node.entry} // fromKey == toKey exactly
		}

		if fromKey[depth] == toKey[depth] {
			sym := toKey[depth]
			if node.bitmap&(uint64(1)<<sym) == 0 {
				return []Entry{}
			}
			node = &node.children[childAt(node.bitmap, sym)]
			continue
		}

		result := []Entry{}
		if fromMask := uint64(1) << fromKey[depth]; node.bitmap&fromMask != 0 {
			fromNode := node.children[childAt(node.bitmap, fromKey[depth])]
			result = append(result, fromNode.sideEntries(fromKey[depth+1:], highSide)...)
		}
		for sym := fromKey[depth] + 1; sym < toKey[depth]; sym++ {
			if node.bitmap&(uint64(1)<<sym) != 0 {
				child := node.children[childAt(node.bitmap, sym)]
				result = append(result, child.getAllLeaves()...)
			}
		}
		if toMask := uint64(1) << toKey[depth]; node.bitmap&toMask != 0 {
			toNode := node.children[childAt(node.bitmap, toKey[depth])]
			result = append(result, toNode.sideEntries(toKey[depth+1:], lowSide)...)
		}
		return result
	}
}

// getAllLeaves returns every entry under n, ordered lowest to highest. This
// relies on children always being stored in ascending symbol order.
func (n *RxNode) getAllLeaves() []Entry {
	if n.entry != nil {
		return []Entry{*n.entry}
	}
	entries := make([]Entry, 0, len(n.children))
	for i := range n.children {
		entries = append(entries, n.children[i].getAllLeaves()...)
	}
	return entries
}

// sideEntries collects every entry reachable from the siblings sideSiblings
// finds, in the order matching dir (lowest-to-highest either way).
func (n *RxNode) sideEntries(key internalKey, dir side) []Entry {
	nodes := n.sideSiblings(key, dir)
	entries := make([]Entry, 0, len(nodes))
	if dir == highSide {
		for i := len(nodes) - 1; i >= 0; i-- {
			entries = append(entries, nodes[i].getAllLeaves()...)
		}
	} else {
		for _, node := range nodes {
			entries = append(entries, node.getAllLeaves()...)
		}
	}
	return entries
}

// sideSiblings walks down from n along key, collecting at each level the
// subtrees that lie entirely on the requested side of key (at-or-above it
// for highSide, at-or-below it for lowSide). The result for highSide is
// ordered highest to lowest; for lowSide, lowest to highest.
func (n *RxNode) sideSiblings(key internalKey, dir side) []*RxNode {
	result := []*RxNode{}
	node := n
	for depth := 0; ; depth++ {
		for i, char := range node.extraChars {
			c := key[depth+i]
			switch {
			case char == c:
				continue
			case (char > c) == (dir == highSide):
				return append(result, node)
			default:
				return result
			}
		}
		depth += len(node.extraChars)

		if depth == len(key) {
			return append(result, node)
		}

		sym := key[depth]
		present := node.bitmap&(uint64(1)<<sym) != 0
		childIdx := childAt(node.bitmap, sym)

		if dir == highSide {
			start := childIdx
			if present {
				start = childIdx + 1
			}
			result = appendReverse(result, node.children[start:])
		} else {
			result = appendForward(result, node.children[:childIdx])
		}

		if !present {
			return result
		}
		node = &node.children[childIdx]
	}
}

func appendForward(dst []*RxNode, src []RxNode) []*RxNode {
	for i := range src {
		dst = append(dst, &src[i])
	}
	return dst
}

func appendReverse(dst []*RxNode, src []RxNode) []*RxNode {
	for i := len(src) - 1; i >= 0; i-- {
		dst = append(dst, &src[i])
	}
	return dst
}

// childAt returns the index sym's child would occupy in a node's children,
// given that node's bitmap. It does not check whether the child exists.
func childAt(bitmap uint64, sym uint8) int {
	if sym == 0 {
		return 0
	}
	mask := MaxUint64 >> (64 - sym)
	return bits.OnesCount64(bitmap & mask)
}
