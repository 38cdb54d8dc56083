package dictionary

import (
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
)

// Hash stores pairs in a map. Autocomplete scans every entry.
type Hash struct {
	words map[string]int
}

// NewHash returns an empty hash dictionary.
func NewHash() *Hash {
	return &Hash{words: make(map[string]int)}
}

func (h *Hash) Build(pairs []wordfreq.Pair) error {
	h.words = make(map[string]int, len(pairs))
	return build(pairs, h.Insert)
}

func (h *Hash) Search(word string) (int, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return 0, err
	}
	return h.words[word], nil
}

func (h *Hash) Insert(word string, frequency int) (bool, error) {
	if err := wordfreq.Validate(word, frequency); err != nil {
		return false, err
	}
	if _, exists := h.words[word]; exists {
		return false, nil
	}
	h.words[word] = frequency
	return true, nil
}

func (h *Hash) Delete(word string) (bool, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return false, err
	}
	if _, exists := h.words[word]; !exists {
		return false, nil
	}
	delete(h.words, word)
	return true, nil
}

func (h *Hash) Autocomplete(prefix string) []wordfreq.Pair {
	return h.Top(prefix, wordfreq.DefaultLimit)
}

func (h *Hash) Top(prefix string, n int) []wordfreq.Pair {
	if !utf8.ValidString(prefix) {
		return []wordfreq.Pair{}
	}
	var matches []wordfreq.Pair
	for word, freq := range h.words {
		if strings.HasPrefix(word, prefix) {
			matches = append(matches, wordfreq.Pair{Word: word, Frequency: freq})
		}
	}
	return wordfreq.Rank(matches, n)
}

func (h *Hash) Len() int {
	return len(h.words)
}
