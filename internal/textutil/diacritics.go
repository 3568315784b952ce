package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining accents from letters so that "ñ" becomes
// "n" and "café" becomes "cafe".
//
// Only non-spacing marks attached to a Latin, Greek or Cyrillic letter are
// dropped. Marks on other scripts ("づ" keeps its dakuten), marks that follow
// punctuation or symbols (kaomoji like "( ͡° ͜ʖ ͡°)") and emoji variation
// selectors are preserved. Input that is not valid UTF-8 is returned as is.
func StripDiacritics(line string) string {
	if line == "" || !utf8.ValidString(line) {
		return line
	}
	if isASCII(line) {
		return line
	}

	decomposed := norm.NFD.String(line)
	var b strings.Builder
	b.Grow(len(decomposed))

	afterLetter := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			if afterLetter && !isVariationSelector(r) {
				continue
			}
			b.WriteRune(r)
			continue
		}
		afterLetter = isAccentableLetter(r)
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

var accentableScripts = []*unicode.RangeTable{unicode.Latin, unicode.Greek, unicode.Cyrillic}

func isAccentableLetter(r rune) bool {
	return unicode.IsLetter(r) && unicode.In(r, accentableScripts...)
}

func isVariationSelector(r rune) bool {
	return (r >= 0xFE00 && r <= 0xFE0F) || (r >= 0xE0100 && r <= 0xE01EF)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
