package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jchronis/aknero/pkg/grammar"
	"github.com/jchronis/aknero/pkg/textnorm"
)

// Heuristic is the marker-based extractor variant. It scans the folded
// shadow of the text once for the first occurrence of each marker class
// (motivation start, decision start, conclusions start) with tolerant
// matching that survives OCR spacing artifacts, and slices the text into
// the four body regions at those offsets. A marker that is not found
// defaults to end of text, so a missing section degrades to an empty string.
type Heuristic struct {
	motivationMarkers  []*regexp.Regexp
	decisionMarkers    []*regexp.Regexp
	conclusionsMarkers []*regexp.Regexp
	outcomeSentence    *regexp.Regexp
	docNumber          *regexp.Regexp
	subDepartment      *regexp.Regexp
}

// proponentFormulas maps each recognizable court formula to its authority
// code. Matching runs on the folded shadow.
var proponentFormulas = []struct {
	Formula string
	Court   string
}{
	{"ΤΟ ΣΥΜΒΟΥΛΙΟ ΤΗΣ ΕΠΙΚΡΑΤΕΙΑΣ", "COS"},
	{"ΤΟ ΔΙΚΑΣΤΗΡΙΟ ΤΟΥ ΑΡΕΙΟΥ ΠΑΓΟΥ", "AP"},
}

// NewHeuristic compiles the marker patterns once; workers reuse the value
// across tasks.
func NewHeuristic() *Heuristic {
	return &Heuristic{
		motivationMarkers: []*regexp.Regexp{
			textnorm.SpacedPattern("Σκέφθηκε κατά τον Νόμο"),
			textnorm.SpacedPattern("Σκέφτηκε σύμφωνα με τον Νόμο"),
		},
		decisionMarkers: []*regexp.Regexp{
			textnorm.SpacedPattern("Διατάυτα"),
			textnorm.SpacedPattern("Δια ταύτα"),
			textnorm.SpacedPattern("ΓΙΑ ΤΟΥΣ ΛΟΓΟΥΣ ΑΥΤΟΥΣ"),
		},
		conclusionsMarkers: []*regexp.Regexp{
			textnorm.SpacedPattern("Η διάσκεψη έγινε"),
			textnorm.SpacedPattern("Κρίθηκε και αποφασίσθηκε"),
		},
		outcomeSentence: regexp.MustCompile(
			`(?:` + strings.Join(grammar.OutcomeVerbs, "|") + `)[^.\n]*[.\n]`),
		docNumber:     regexp.MustCompile(`(?i)Αριθμός\s+(\d{1,4}\s*/\s*\d{4})`),
		subDepartment: regexp.MustCompile(`(?i)ΤΜΗΜΑ[^\n]*`),
	}
}

// MissingFieldsError reports that heuristic extraction could not find fields
// the document cannot be published without. The task is skipped, not failed.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Court returns the authority code detected from the proponent formula, or
// "" when none matches.
func (h *Heuristic) Court(doc *textnorm.RawDocument) string {
	for _, pf := range proponentFormulas {
		if strings.Contains(doc.Folded, textnorm.Fold(pf.Formula)) {
			return pf.Court
		}
	}
	return ""
}

// Extract segments the document. It returns a MissingFieldsError when the
// document number or an authority formula cannot be found; every other
// irregularity is a diagnostic on the result.
func (h *Heuristic) Extract(doc *textnorm.RawDocument) (Result, error) {
	text := doc.Text
	folded := doc.Folded

	motivationAt := h.firstMarker(text, folded, h.motivationMarkers)
	decisionAt := h.firstMarker(text, folded, h.decisionMarkers)
	conclusionsAt := h.firstMarker(text, folded, h.conclusionsMarkers)

	n := len(text)
	introEnd := minInt(motivationAt, decisionAt, conclusionsAt, n)
	motivationEnd := minInt(decisionAt, conclusionsAt, n)
	if motivationEnd < motivationAt {
		motivationEnd = motivationAt
	}
	decisionEnd := minInt(conclusionsAt, n)
	if decisionEnd < decisionAt {
		decisionEnd = decisionAt
	}

	updates := []Update{
		{RegionIntroduction, strings.TrimSpace(text[:introEnd])},
	}
	var diags []Diagnostic

	if motivationAt < n {
		updates = append(updates,
			Update{RegionMotivation, strings.TrimSpace(text[motivationAt:motivationEnd])})
	} else {
		diags = append(diags, Diagnostic{"segmentation", "motivation marker not found"})
	}

	decisionSpan := ""
	if decisionAt < n {
		decisionSpan = strings.TrimSpace(text[decisionAt:decisionEnd])
		updates = append(updates, Update{RegionDecision, decisionSpan})
	} else {
		diags = append(diags, Diagnostic{"segmentation", "decision marker not found"})
	}

	if conclusionsAt < n {
		updates = append(updates,
			Update{RegionConclusions, strings.TrimSpace(text[conclusionsAt:])})
	} else {
		diags = append(diags, Diagnostic{"segmentation", "conclusions marker not found"})
	}

	if outcome := h.outcome(decisionSpan); outcome != "" {
		updates = append(updates, Update{RegionOutcome, outcome})
	}

	// header fields
	var missing []string
	if m := h.docNumber.FindStringSubmatch(text); m != nil {
		updates = append(updates,
			Update{RegionDocNumber, strings.ReplaceAll(m[1], " ", "")})
	} else {
		missing = append(missing, "docNumber")
	}
	court := h.Court(doc)
	if court == "" {
		missing = append(missing, "court")
	}
	for _, pf := range proponentFormulas {
		if pf.Court == court {
			updates = append(updates, Update{RegionDocProponent, pf.Formula})
		}
	}
	if m := h.subDepartment.FindString(text); m != "" {
		updates = append(updates, Update{RegionSubDepartment, strings.TrimSpace(m)})
	}

	if len(missing) > 0 {
		return Result{}, &MissingFieldsError{Fields: missing}
	}
	return Result{Skeleton: Apply(updates), Diagnostics: diags}, nil
}

// firstMarker returns the byte offset in the original text of the earliest
// match of any pattern in the class, or len(text) when none matches.
func (h *Heuristic) firstMarker(text, folded string, patterns []*regexp.Regexp) int {
	best := len(text)
	for _, pattern := range patterns {
		if loc := pattern.FindStringIndex(folded); loc != nil {
			if at := textnorm.ByteOffset(text, folded, loc[0]); at < best {
				best = at
			}
		}
	}
	return best
}

func (h *Heuristic) outcome(decisionSpan string) string {
	if decisionSpan == "" {
		return ""
	}
	if m := h.outcomeSentence.FindString(decisionSpan); m != "" {
		return strings.TrimSpace(strings.TrimSuffix(m, "\n"))
	}
	for _, line := range strings.Split(decisionSpan, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
