package dates

import (
	"regexp"

	"github.com/jchronis/aknero/pkg/textnorm"
)

// greekMonths maps folded (lower-cased, diacritic-stripped) genitive month
// names to two-digit month codes. Folding makes the accented, unaccented and
// dialytika spellings collapse to one key; the extra entries cover common
// misspellings seen in the corpus.
var greekMonths = map[string]string{
	"ιανουαριου":  "01",
	"ιουανουαριου": "01",
	"φεβρουαριου": "02",
	"μαρτιου":     "03",
	"απριλιου":    "04",
	"μαιου":       "05",
	"ιουνιου":     "06",
	"ιουλιου":     "07",
	"αυγουστου":   "08",
	"σεπτεμβριου": "09",
	"οκτωβριου":   "10",
	"νοεμβριου":   "11",
	"δεκεμβριου":  "12",
}

var nonLetterPattern = regexp.MustCompile(`[^\p{L}]`)

// NormalizeMonth resolves a Greek genitive month token to its two-digit code.
// The token may carry any accent or dialytika variant and stray punctuation.
func NormalizeMonth(token string) (string, bool) {
	key := nonLetterPattern.ReplaceAllString(textnorm.Fold(token), "")
	code, ok := greekMonths[key]
	return code, ok
}
