package tst

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCorrupt reports a broken structural invariant. It is never expected from a tree
// mutated only through its methods; callers should treat it as fatal.
var ErrCorrupt = errors.New("tst: corrupt tree")

// bounds is the open interval a sibling chain position must stay within.
// A nil bound is unbounded.
type bounds struct {
	lo, hi *rune
}

func (b bounds) contains(c rune) bool {
	return (b.lo == nil || c > *b.lo) && (b.hi == nil || c < *b.hi)
}

// Check walks the whole tree and verifies:
//   - each sibling chain is a binary search tree on strictly ordered characters
//   - only terminal nodes carry a frequency, and it is positive
//   - the word and node counters match the structure
func (t *Tree) Check() error {
	type item struct {
		n     *node
		b     bounds
		depth int
	}

	words, nodes := 0, 0
	stack := []item{{n: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := it.n
		if n == nil {
			continue
		}
		nodes++

		if !it.b.contains(n.char) {
			return fmt.Errorf("%w: %q out of sibling order at depth %d", ErrCorrupt, n.char, it.depth)
		}
		switch {
		case n.terminal && n.freq < 1:
			return fmt.Errorf("%w: terminal %q has frequency %d", ErrCorrupt, n.char, n.freq)
		case !n.terminal && n.freq != 0:
			return fmt.Errorf("%w: non-terminal %q has frequency %d", ErrCorrupt, n.char, n.freq)
		case n.terminal:
			words++
		}

		c := n.char
		stack = append(stack,
			item{n: n.left, b: bounds{lo: it.b.lo, hi: &c}, depth: it.depth},
			item{n: n.right, b: bounds{lo: &c, hi: it.b.hi}, depth: it.depth},
			item{n: n.middle, depth: it.depth + 1},
		)
	}

	if words != t.words {
		return fmt.Errorf("%w: counted %d words, tracking %d", ErrCorrupt, words, t.words)
	}
	if nodes != t.nodes {
		return fmt.Errorf("%w: counted %d nodes, tracking %d", ErrCorrupt, nodes, t.nodes)
	}
	return nil
}

// Dump writes one line per node, indented by word position. Each line shows the link
// the node hangs from (root, <, = or >), its character and, for terminal nodes, the
// frequency.
//
//	root 'c'
//	  = 'u'
//	    = 't' (10)
//	    < 'b' (8)
func (t *Tree) Dump(w io.Writer) error {
	type item struct {
		n     *node
		link  string
		depth int
	}

	stack := []item{{n: t.root, link: "root"}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := it.n
		if n == nil {
			continue
		}

		line := fmt.Sprintf("%s%s %q", strings.Repeat("  ", it.depth), it.link, n.char)
		if n.terminal {
			line += fmt.Sprintf(" (%d)", n.freq)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		stack = append(stack,
			item{n: n.right, link: ">", depth: it.depth},
			item{n: n.left, link: "<", depth: it.depth},
			item{n: n.middle, link: "=", depth: it.depth + 1},
		)
	}
	return nil
}

// String renders the tree with Dump.
func (t *Tree) String() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}
