package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports whether r may appear inside a word without counting as a
// special character.
func IsSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '\''
}

// IsOnlyNumbers reports whether s is non-empty and made of digits only
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars reports whether s holds anything besides letters, digits,
// combining marks and separators.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive reports whether s is one rune repeated three or more times ("aaa").
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput reports whether a typed prefix is worth completing.
// Numbers, punctuation noise and runs of one character are rejected.
func IsValidInput(s string) bool {
	if len(s) == 0 || !utf8.ValidString(s) {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}
