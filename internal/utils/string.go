package utils

import (
	"unicode"
)

// CapitalInfo records which rune positions of a typed prefix were upper case.
type CapitalInfo struct {
	positions []int
	chars     []rune
}

// ProcessCapitals lowercases s rune by rune and records where its capitals were.
// The info is nil when s has no upper case runes.
func ProcessCapitals(s string) (string, *CapitalInfo) {
	runes := []rune(s)
	var info *CapitalInfo
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			continue
		}
		if info == nil {
			info = &CapitalInfo{}
		}
		info.positions = append(info.positions, i)
		info.chars = append(info.chars, r)
		runes[i] = unicode.ToLower(r)
	}
	if info == nil {
		return s, nil
	}
	return string(runes), info
}

// ApplyCapitals puts the recorded capitals back into word at the same rune positions.
// Positions past the end of word are ignored.
func ApplyCapitals(word string, info *CapitalInfo) string {
	if info == nil {
		return word
	}
	runes := []rune(word)
	for i, pos := range info.positions {
		if pos < len(runes) {
			runes[pos] = info.chars[i]
		}
	}
	return string(runes)
}
