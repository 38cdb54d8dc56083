package tst

import (
	"iter"
	"unicode/utf8"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
)

// Autocomplete returns up to three stored words starting with prefix, most frequent
// first. Words with equal frequency are ordered by ordinal word order. The prefix
// itself is included when it is a stored word, and the empty prefix matches every word.
// No match yields an empty slice.
func (t *Tree) Autocomplete(prefix string) []wordfreq.Pair {
	return t.Top(prefix, wordfreq.DefaultLimit)
}

// Top is Autocomplete with a caller chosen limit. limit <= 0 returns every match.
func (t *Tree) Top(prefix string, limit int) []wordfreq.Pair {
	if !utf8.ValidString(prefix) {
		return []wordfreq.Pair{}
	}

	var matches []wordfreq.Pair
	collect := func(word []rune, freq int) bool {
		matches = append(matches, wordfreq.Pair{Word: string(word), Frequency: freq})
		return true
	}

	if prefix == "" {
		walk(t.root, nil, collect)
		return wordfreq.Rank(matches, limit)
	}

	key := []rune(prefix)
	anchor := t.find(key)
	if anchor == nil {
		return []wordfreq.Pair{}
	}
	if anchor.terminal {
		matches = append(matches, wordfreq.Pair{Word: prefix, Frequency: anchor.freq})
	}
	walk(anchor.middle, key, collect)
	return wordfreq.Rank(matches, limit)
}

// All yields every stored word with its frequency in ordinal word order.
func (t *Tree) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		walk(t.root, nil, func(word []rune, freq int) bool {
			return yield(string(word), freq)
		})
	}
}

// frame is a pending step of walk. depth is the word position of n: the characters
// spelled above n occupy buf[:depth] whenever the frame is popped. An expand frame
// schedules n's links, a visit frame writes n.char into the buffer and emits it.
type frame struct {
	n     *node
	depth int
	visit bool
}

// walk visits the subtree rooted at start in ordinal order, calling fn for every
// terminal node with the word spelled by prefix and the path below start.
// The word slice is only valid during the call.
//
// Traversal uses an explicit stack so long shared prefixes cannot exhaust the
// goroutine stack, and a single buffer holds the word being spelled. It stops early
// when fn returns false.
func walk(start *node, prefix []rune, fn func(word []rune, freq int) bool) {
	if start == nil {
		return
	}
	buf := append([]rune(nil), prefix...)
	stack := []frame{{n: start, depth: len(prefix)}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.n

		if f.visit {
			buf = append(buf[:f.depth], n.char)
			if n.terminal && !fn(buf, n.freq) {
				return
			}
			continue
		}

		// pushed in reverse visiting order: left, self, middle, right
		if n.right != nil {
			stack = append(stack, frame{n: n.right, depth: f.depth})
		}
		if n.middle != nil {
			stack = append(stack, frame{n: n.middle, depth: f.depth + 1})
		}
		stack = append(stack, frame{n: n, depth: f.depth, visit: true})
		if n.left != nil {
			stack = append(stack, frame{n: n.left, depth: f.depth})
		}
	}
}
