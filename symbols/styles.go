package symbols

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Style 是一种数学字母表。
type Style uint8

const (
	StyleScript Style = iota + 1
	StyleBold
	StyleItalic
	StyleDoubleStruck
	StyleFraktur
	StyleSansSerif
	StyleMonospace
)

// alphabet 记录一种字母表在 Unicode 数学字母数字区中的起点。0 表示该类字符保持不变。
type alphabet struct {
	upper, lower, digit rune
	holes               map[rune]rune
}

var alphabets = map[Style]alphabet{
	StyleBold: {upper: 0x1D400, lower: 0x1D41A, digit: 0x1D7CE},
	StyleItalic: {upper: 0x1D434, lower: 0x1D44E, holes: map[rune]rune{
		'h': 'ℎ',
	}},
	StyleScript: {upper: 0x1D49C, lower: 0x1D4B6, holes: map[rune]rune{
		'B': 'ℬ', 'E': 'ℰ', 'F': 'ℱ', 'H': 'ℋ', 'I': 'ℐ', 'L': 'ℒ', 'M': 'ℳ', 'R': 'ℛ',
		'e': 'ℯ', 'g': 'ℊ', 'o': 'ℴ',
	}},
	StyleDoubleStruck: {upper: 0x1D538, lower: 0x1D552, digit: 0x1D7D8, holes: map[rune]rune{
		'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
	}},
	StyleFraktur: {upper: 0x1D504, lower: 0x1D51E, holes: map[rune]rune{
		'C': 'ℭ', 'H': 'ℌ', 'I': 'ℑ', 'R': 'ℜ', 'Z': 'ℨ',
	}},
	StyleSansSerif: {upper: 0x1D5A0, lower: 0x1D5BA, digit: 0x1D7E2},
	StyleMonospace: {upper: 0x1D670, lower: 0x1D68A, digit: 0x1D7F6},
}

// Apply 把 text 中的拉丁字母（以及部分字母表中的数字）换成对应的数学字母，其余字符不变。
func (s Style) Apply(text string) string {
	a, ok := alphabets[s]
	if !ok {
		return text
	}
	var sb strings.Builder
	for _, r := range norm.NFC.String(text) {
		if h, ok := a.holes[r]; ok {
			sb.WriteRune(h)
			continue
		}
		switch {
		case r >= 'A' && r <= 'Z' && a.upper != 0:
			sb.WriteRune(a.upper + r - 'A')
		case r >= 'a' && r <= 'z' && a.lower != 0:
			sb.WriteRune(a.lower + r - 'a')
		case r >= '0' && r <= '9' && a.digit != 0:
			sb.WriteRune(a.digit + r - '0')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
