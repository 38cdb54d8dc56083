// Package wordfreq holds the (word, frequency) pair shared by every dictionary backend,
// the input validation rules they all apply and the common result ranking.
package wordfreq

import (
	"errors"
	"sort"
	"unicode/utf8"
)

// DefaultLimit is the number of completions returned by Autocomplete.
const DefaultLimit = 3

var (
	// ErrEmptyWord is returned when a word or an insert key is the empty string.
	ErrEmptyWord = errors.New("word must not be empty")
	// ErrInvalidEncoding is returned for words that are not valid UTF-8, which would
	// otherwise collapse onto utf8.RuneError when split into characters.
	ErrInvalidEncoding = errors.New("word is not valid UTF-8")
	// ErrInvalidFrequency is returned when inserting a frequency below 1.
	// 0 is reserved as the "not found" result of Search.
	ErrInvalidFrequency = errors.New("frequency must be positive")
)

// Pair is a stored word with its frequency.
type Pair struct {
	Word      string `msgpack:"w" toml:"word"`
	Frequency int    `msgpack:"f" toml:"frequency"`
}

// ValidateWord rejects the empty word and malformed UTF-8.
func ValidateWord(word string) error {
	if word == "" {
		return ErrEmptyWord
	}
	if !utf8.ValidString(word) {
		return ErrInvalidEncoding
	}
	return nil
}

// Validate checks a pair before insertion.
func Validate(word string, frequency int) error {
	if err := ValidateWord(word); err != nil {
		return err
	}
	if frequency < 1 {
		return ErrInvalidFrequency
	}
	return nil
}

// Rank orders pairs by frequency (highest first), breaking ties by ordinal word order,
// and keeps at most limit of them. limit <= 0 keeps everything.
// The slice is sorted in place; a nil input yields an empty, non-nil slice.
func Rank(pairs []Pair, limit int) []Pair {
	if pairs == nil {
		return []Pair{}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Frequency != pairs[j].Frequency {
			return pairs[i].Frequency > pairs[j].Frequency
		}
		return pairs[i].Word < pairs[j].Word
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
