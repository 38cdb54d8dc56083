/*
Package tst implements a ternary search tree dictionary of words and their frequencies.

Each node holds one character and owns three links: left and right lead to sibling
nodes holding smaller and larger characters at the same word position, middle leads to
the next character of every word spelled by the path so far. A word is stored by
marking the node of its last character as terminal and putting its frequency there.

	t := tst.New()
	t.Insert("cut", 10)
	t.Insert("cute", 20)
	t.Search("cut")      // 10
	t.Autocomplete("cu") // [{cute 20} {cut 10}]

Characters are runes compared by code point. A Tree is not safe for concurrent use;
callers that share one must serialize access themselves.
*/
package tst

import (
	"errors"
	"fmt"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
)

// node is one character position. A nil link means "no child"; a node that exists
// but ends no word has terminal == false.
type node struct {
	char                rune
	left, middle, right *node
	terminal            bool
	freq                int
}

// empty reports whether the node carries no information and can be detached.
func (n *node) empty() bool {
	return !n.terminal && n.left == nil && n.middle == nil && n.right == nil
}

// Tree is a ternary search tree. The zero value is an empty tree ready to use.
type Tree struct {
	root  *node
	words int
	nodes int
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Len returns the number of stored words.
func (t *Tree) Len() int {
	return t.words
}

// Nodes returns the number of materialized nodes.
func (t *Tree) Nodes() int {
	return t.nodes
}

// Build replaces the contents of the tree with pairs, inserting them in order.
// A word that appears more than once keeps the frequency of its first occurrence.
// Invalid pairs are skipped; their errors are joined into the returned error.
func (t *Tree) Build(pairs []wordfreq.Pair) error {
	t.root, t.words, t.nodes = nil, 0, 0

	var errs []error
	for _, p := range pairs {
		if _, err := t.Insert(p.Word, p.Frequency); err != nil {
			errs = append(errs, fmt.Errorf("insert %q: %w", p.Word, err))
		}
	}
	return errors.Join(errs...)
}

// Insert stores word with freq if the word is not present yet.
// It reports false, leaving the stored frequency untouched, when the word already exists.
func (t *Tree) Insert(word string, freq int) (bool, error) {
	if err := wordfreq.Validate(word, freq); err != nil {
		return false, err
	}
	key := []rune(word)

	link := &t.root
	i := 0
	for {
		n := *link
		if n == nil {
			n = &node{char: key[i]}
			*link = n
			t.nodes++
		}
		switch c := key[i]; {
		case c < n.char:
			link = &n.left
		case c > n.char:
			link = &n.right
		default:
			i++
			if i < len(key) {
				link = &n.middle
				continue
			}
			if n.terminal {
				return false, nil
			}
			n.terminal, n.freq = true, freq
			t.words++
			return true, nil
		}
	}
}

// Search returns the frequency of word, or 0 when it is not stored.
func (t *Tree) Search(word string) (int, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return 0, err
	}
	n := t.find([]rune(word))
	if n == nil || !n.terminal {
		return 0, nil
	}
	return n.freq, nil
}

// Contains reports whether word is stored.
func (t *Tree) Contains(word string) bool {
	freq, err := t.Search(word)
	return err == nil && freq > 0
}

// find follows the lookup path of key and returns the node of its last character,
// terminal or not, or nil when the path leaves the tree. key must not be empty.
func (t *Tree) find(key []rune) *node {
	n := t.root
	i := 0
	for n != nil {
		switch c := key[i]; {
		case c < n.char:
			n = n.left
		case c > n.char:
			n = n.right
		default:
			i++
			if i == len(key) {
				return n
			}
			n = n.middle
		}
	}
	return nil
}
