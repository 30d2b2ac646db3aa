package extract

import (
	"regexp"
	"strings"

	"github.com/jchronis/aknero/pkg/textnorm"
)

// Council of State filings open with a rigid line layout that the marker
// heuristics misread, so their header and introduction are re-derived by a
// line scanner. Each override is all-or-nothing: when the expected layout is
// not found the skeleton regions are left exactly as the extractor produced
// them and a diagnostic records the skip.

type overrideState int

const (
	seekNumber overrideState = iota
	seekProponent
	seekSubDept
	collectDetails
	done
)

// Override rescans the document head for the fixed Council of State layout.
type Override struct {
	number     *regexp.Regexp
	motivation *regexp.Regexp
}

// numberAnchors match the decision-number line in the folded view, so they
// are derived through the same fold the shadow lines went through.
var numberAnchors = []string{textnorm.Fold("Αριθμός"), textnorm.Fold("Αριθμ.")}

// introAnchor is the folded prefix of the trial formula that opens the
// introduction ("για να δικάσει ...").
const introAnchor = "για να δικ"

func NewOverride() *Override {
	return &Override{
		number:     regexp.MustCompile(`(\d{1,4})\s*/\s*(\d{4})`),
		motivation: textnorm.SpacedPattern("Σκέφθηκε κατά τον Νόμο"),
	}
}

// Apply runs both overrides against the document and returns the adjusted
// skeleton. The header and introduction overrides are independent; either
// can succeed while the other is skipped.
func (o *Override) Apply(doc *textnorm.RawDocument, skel Skeleton) (Skeleton, []Diagnostic) {
	var diags []Diagnostic

	lines := doc.Lines()
	folded := doc.FoldedLines()
	limit := o.headLimit(doc)

	if header, ok := o.scanHeader(lines, folded, limit); ok {
		skel.Header = header
	} else {
		diags = append(diags, Diagnostic{"override", "header layout not recognized, keeping extracted header"})
	}

	if intro, ok := o.scanIntroduction(lines, folded, limit); ok {
		skel.Introduction = intro
	} else {
		diags = append(diags, Diagnostic{"override", "introduction formula not found, keeping extracted introduction"})
	}

	return skel, diags
}

// headLimit bounds the scan at the motivation formula so body lines that
// happen to contain a number or the trial formula are never picked up.
func (o *Override) headLimit(doc *textnorm.RawDocument) int {
	folded := doc.FoldedLines()
	for i, line := range folded {
		if o.motivation.MatchString(line) {
			return i
		}
	}
	return len(folded)
}

// scanHeader walks the document head through the four header states. Every
// state must be satisfied before the limit, otherwise the scan reports
// failure and no field is taken.
func (o *Override) scanHeader(lines, folded []string, limit int) (HeaderFields, bool) {
	var header HeaderFields
	var details []string
	state := seekNumber

	for i := 0; i < limit && state != done; i++ {
		line := strings.TrimSpace(lines[i])
		shadow := folded[i]

		switch state {
		case seekNumber:
			if !hasNumberAnchor(shadow) {
				continue
			}
			m := o.number.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			header.DocNumber = m[1] + "/" + m[2]
			state = seekProponent

		case seekProponent:
			if line == "" {
				continue
			}
			header.DocProponent = line
			state = seekSubDept

		case seekSubDept:
			if line == "" {
				continue
			}
			// the layout puts the chamber right under the court name;
			// whatever sits there is the sub-department line
			header.SubDepartment = line
			state = collectDetails

		case collectDetails:
			if strings.Contains(shadow, introAnchor) {
				state = done
				continue
			}
			if line != "" {
				details = append(details, line)
			}
		}
	}

	if state != done && state != collectDetails {
		return HeaderFields{}, false
	}
	header.HeaderDetails = strings.Join(details, "\n")
	return header, true
}

// scanIntroduction replaces the introduction with the lines from the trial
// formula to the end of the document head, one paragraph per line.
func (o *Override) scanIntroduction(lines, folded []string, limit int) (string, bool) {
	start := -1
	for i := 0; i < limit; i++ {
		if strings.Contains(folded[i], introAnchor) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	var paragraphs []string
	for i := start; i < limit; i++ {
		if line := strings.TrimSpace(lines[i]); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n"), true
}

func hasNumberAnchor(foldedLine string) bool {
	for _, anchor := range numberAnchors {
		if strings.Contains(foldedLine, anchor) {
			return true
		}
	}
	return false
}
