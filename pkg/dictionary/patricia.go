package dictionary

import (
	"unicode/utf8"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Patricia stores pairs in a compressed byte trie. Frequencies are the trie items.
type Patricia struct {
	trie  *patricia.Trie
	words int
}

// NewPatricia returns an empty patricia dictionary.
func NewPatricia() *Patricia {
	return &Patricia{trie: patricia.NewTrie()}
}

func (p *Patricia) Build(pairs []wordfreq.Pair) error {
	p.trie = patricia.NewTrie()
	p.words = 0
	return build(pairs, p.Insert)
}

func (p *Patricia) Search(word string) (int, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return 0, err
	}
	item := p.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, nil
	}
	return item.(int), nil
}

func (p *Patricia) Insert(word string, frequency int) (bool, error) {
	if err := wordfreq.Validate(word, frequency); err != nil {
		return false, err
	}
	if !p.trie.Insert(patricia.Prefix(word), frequency) {
		return false, nil
	}
	p.words++
	return true, nil
}

func (p *Patricia) Delete(word string) (bool, error) {
	if err := wordfreq.ValidateWord(word); err != nil {
		return false, err
	}
	if !p.trie.Delete(patricia.Prefix(word)) {
		return false, nil
	}
	p.words--
	return true, nil
}

func (p *Patricia) Autocomplete(prefix string) []wordfreq.Pair {
	return p.Top(prefix, wordfreq.DefaultLimit)
}

func (p *Patricia) Top(prefix string, n int) []wordfreq.Pair {
	if !utf8.ValidString(prefix) {
		return []wordfreq.Pair{}
	}

	var matches []wordfreq.Pair
	visit := func(key patricia.Prefix, item patricia.Item) error {
		matches = append(matches, wordfreq.Pair{Word: string(key), Frequency: item.(int)})
		return nil
	}

	var err error
	if prefix == "" {
		err = p.trie.Visit(visit)
	} else {
		err = p.trie.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	if err != nil {
		log.Errorf("Error visiting patricia subtree: %v", err)
		return []wordfreq.Pair{}
	}
	return wordfreq.Rank(matches, n)
}

func (p *Patricia) Len() int {
	return p.words
}
