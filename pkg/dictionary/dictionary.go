/*
Package dictionary defines the word/frequency dictionary contract and its backends.

Every backend answers the same five operations with the same results: Build bulk loads
pairs (first occurrence of a word wins), Search returns a frequency or 0, Insert never
overwrites, Delete reports whether a word was removed, and Autocomplete returns up to
three words with the given prefix ranked by wordfreq.Rank (Top takes any limit).

	dict, err := dictionary.New(dictionary.KindTST)
	dict.Build(pairs)
	dict.Autocomplete("cu")

The ternary search tree (package tst) is the primary backend. The list, hash and
patricia backends rely on their host collections and are kept as reference
implementations to cross-check it.
*/
package dictionary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/bastiangx/wordtree/pkg/wordfreq"
)

// Dictionary is the capability shared by all backends. Implementations are not safe
// for concurrent use.
type Dictionary interface {
	// Build replaces the contents with pairs. Invalid pairs are skipped and reported.
	Build(pairs []wordfreq.Pair) error
	// Search returns the frequency of word, 0 when absent.
	Search(word string) (int, error)
	// Insert adds word unless it is already present.
	Insert(word string, frequency int) (bool, error)
	// Delete removes word, reporting whether it was present.
	Delete(word string) (bool, error)
	// Autocomplete returns up to three words starting with prefix, most frequent first.
	Autocomplete(prefix string) []wordfreq.Pair
	// Top is Autocomplete with a caller-chosen limit; n <= 0 returns every match.
	Top(prefix string, n int) []wordfreq.Pair
	// Len returns the number of stored words.
	Len() int
}

// Kind names a backend.
type Kind string

const (
	KindList     Kind = "list"
	KindHash     Kind = "hash"
	KindPatricia Kind = "patricia"
	KindTST      Kind = "tst"
)

// ErrUnknownKind is returned for backend names that are not recognized.
var ErrUnknownKind = errors.New("unknown dictionary backend")

var _ Dictionary = (*tst.Tree)(nil)

// Kinds lists every backend.
func Kinds() []Kind {
	return []Kind{KindTST, KindList, KindHash, KindPatricia}
}

// ParseKind accepts a backend name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range Kinds() {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New returns an empty dictionary of the given kind.
func New(kind Kind) (Dictionary, error) {
	switch kind {
	case KindTST:
		return tst.New(), nil
	case KindList:
		return NewList(), nil
	case KindHash:
		return NewHash(), nil
	case KindPatricia:
		return NewPatricia(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// build inserts pairs one by one, collecting validation errors.
func build(pairs []wordfreq.Pair, insert func(word string, frequency int) (bool, error)) error {
	var errs []error
	for _, p := range pairs {
		if _, err := insert(p.Word, p.Frequency); err != nil {
			errs = append(errs, fmt.Errorf("insert %q: %w", p.Word, err))
		}
	}
	return errors.Join(errs...)
}
