package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

var urlPattern = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)

// foldTable collapses Arabic orthographic variants onto one canonical letter.
var foldTable = map[rune]rune{
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ٱ': 'ا',
	'ٲ': 'ا',
	'ٳ': 'ا',
	'ة': 'ه',
	'ى': 'ي',
	'ؤ': 'و',
	'ئ': 'ي',
	'ی': 'ي',
	'ک': 'ك',
	'گ': 'ك',
	'ڤ': 'ف',
}

func fold(r rune) rune {
	if m, ok := foldTable[r]; ok {
		return m
	}
	return r
}

// isMark matches combining marks (harakat, Latin accents) and tatweel.
func isMark(r rune) bool {
	return r == tatweel || unicode.Is(unicode.Mn, r)
}

// allowed reports whether r belongs to the output alphabet: Arabic letters
// and lower-case basic Latin letters.
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 0x0621 && r <= 0x063A:
		return true
	case r >= 0x0641 && r <= 0x064A:
		return true
	}
	return false
}

// Text normalizes a message for the text classifier: compatibility fold,
// lower-case, Arabic letter folding, mark removal, URL removal, then every
// rune outside the allowed alphabet becomes a single space. Runs of spaces
// collapse and the result is trimmed. Text never fails; the result may be
// empty. Text(Text(s)) == Text(s).
func Text(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Lower(language.Und).String(s)
	s = runes.Map(fold).String(s)
	s = norm.NFD.String(s)
	s = runes.Remove(runes.Predicate(isMark)).String(s)
	s = norm.NFC.String(s)
	s = urlPattern.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if !allowed(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
