package payload

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Slugify транслитерирует текст (грузинский, русский) в латиницу и
// превращает его в slug: нижний регистр, слова через дефис.
func Slugify(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
