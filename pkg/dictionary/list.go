package dictionary

import (
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
)

// List keeps pairs in a slice sorted by word, found by binary search.
type List struct {
	entries []wordfreq.Pair
}

// NewList returns an empty list dictionary.
func NewList() *List {
	return &List{}
}

// index returns the position of word, or where it would be inserted.
func (l *List) index(word string) (int, bool) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Word >= word
	})
	return i, i < len(l.entries) && l.entries[i].Word == word
}

func (l *List) Build(pairs []wordfreq.Pair) error {
	l.entries = make([]wordfreq.Pair, 0, len(pairs))
	return build(pairs, l.Insert)
}

func (l *List) Search(word string) (int, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return 0, err
	}
	if i, ok := l.index(word); ok {
		return l.entries[i].Frequency, nil
	}
	return 0, nil
}

func (l *List) Insert(word string, frequency int) (bool, error) {
	if err := wordfreq.Validate(word, frequency); err != nil {
		return false, err
	}
	i, ok := l.index(word)
	if ok {
		return false, nil
	}
	l.entries = slices.Insert(l.entries, i, wordfreq.Pair{Word: word, Frequency: frequency})
	return true, nil
}

func (l *List) Delete(word string) (bool, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return false, err
	}
	i, ok := l.index(word)
	if !ok {
		return false, nil
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true, nil
}

func (l *List) Autocomplete(prefix string) []wordfreq.Pair {
	return l.Top(prefix, wordfreq.DefaultLimit)
}

// Top scans the contiguous run of words sharing prefix.
func (l *List) Top(prefix string, n int) []wordfreq.Pair {
	if !utf8.ValidString(prefix) {
		return []wordfreq.Pair{}
	}
	var matches []wordfreq.Pair
	start, _ := l.index(prefix)
	for _, p := range l.entries[start:] {
		if !strings.HasPrefix(p.Word, prefix) {
			break
		}
		matches = append(matches, p)
	}
	return wordfreq.Rank(matches, n)
}

func (l *List) Len() int {
	return len(l.entries)
}
