package tst

import "github.com/bastiangx/wordtree/pkg/wordfreq"

// Delete removes word and reports whether it was stored.
//
// After unmarking the terminal node, the links followed to reach it are revisited
// deepest first and every node left with no terminal marker and no children is
// detached from its parent. Pruning stops at the first node that still carries
// information, so words sharing a prefix with word are never touched.
func (t *Tree) Delete(word string) (bool, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return false, err
	}

	path := t.trace([]rune(word))
	if path == nil {
		return false, nil
	}
	last := *path[len(path)-1]
	if !last.terminal {
		return false, nil
	}
	last.terminal, last.freq = false, 0
	t.words--

	t.prune(path)
	return true, nil
}

// trace follows the lookup path of key and returns every link it went through, from
// the root slot down to the link owning the node of the last character. It returns nil
// when the path leaves the tree.
//
// Sibling detours are recorded along with the middle matches: a detour node can only
// be empty once every word below it is gone, and leaving it behind would keep a dead
// routing node (possibly the root) alive.
func (t *Tree) trace(key []rune) []**node {
	path := make([]**node, 0, len(key)*2)
	link := &t.root
	i := 0
	for *link != nil {
		n := *link
		path = append(path, link)
		switch c := key[i]; {
		case c < n.char:
			link = &n.left
		case c > n.char:
			link = &n.right
		default:
			i++
			if i == len(key) {
				return path
			}
			link = &n.middle
		}
	}
	return nil
}

// prune detaches information-free nodes bottom-up along path.
func (t *Tree) prune(path []**node) {
	for k := len(path) - 1; k >= 0; k-- {
		link := path[k]
		if !(*link).empty() {
			return
		}
		*link = nil
		t.nodes--
	}
}
