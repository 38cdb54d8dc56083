package utils

import (
	"math"
	"strconv"
	"strings"
)

// CreateRankList returns the ranks 1..count for an already sorted result list.
// Ranks past math.MaxUint16 saturate instead of wrapping to zero.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}

// FormatWithCommas formats n with thousands separators: 65535 -> "65,535".
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	var b strings.Builder
	b.Grow(len(str) + len(str)/3)
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
