// Package dates extracts the legally significant dates of a judgment: the
// public hearing, the court conference and the decision publication. Each
// kind has its own contextual pattern because the surrounding phrasing
// differs; matched Greek dates are normalized to ISO YYYY-MM-DD.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jchronis/aknero/pkg/textnorm"
)

// Kind identifies one of the three dates of interest.
type Kind string

const (
	PublicHearing       Kind = "publicHearingDate"
	CourtConference     Kind = "courtConferenceDate"
	DecisionPublication Kind = "decisionPublicationDate"
)

// Cascade rule identifiers recorded as provenance on resolved dates.
const (
	RuleContextual       = "contextual"
	RuleConclusionsBlock = "conclusions-block"
	RuleConclusionsPara  = "conclusions-paragraph"
	RulePublishedNext    = "published-next-paragraph"
)

// publishedKeyword is the fixed marker whose containing paragraph anchors
// the final publication-date rule (folded form).
const publishedKeyword = "δημοσιευθηκε"

// DateOfInterest is one resolved date with its provenance.
type DateOfInterest struct {
	Kind Kind
	// ISO is the normalized YYYY-MM-DD form.
	ISO string
	// Region is the text region the date was found in.
	Region string
	// Rule names the cascade rule that produced the match.
	Rule string
	// Match is the literal date phrase as it appears in the region.
	Match string
	// Start and End delimit Match within Region, in bytes.
	Start, End int
}

// datePattern matches "20 Φεβρουαρίου 2024" with optional ordinal suffix on
// the day ("1η", "31ης"). The month token is any letter run; validity is
// decided by the month table so unaccented spellings still match.
const datePattern = `(\d{1,2})(?:η|ης|ος|ου)?\s+(\p{L}+)\s+(\d{4})`

// Resolver holds the per-kind compiled patterns. Each worker constructs its
// own Resolver once and reuses it across tasks.
type Resolver struct {
	hearingContext     *regexp.Regexp
	conferenceContext  *regexp.Regexp
	publicationContext *regexp.Regexp
	bareDate           *regexp.Regexp
}

// contextWindow bounds how far after a contextual keyword a date may appear.
const contextWindow = 1000

// NewResolver compiles the kind-specific patterns.
func NewResolver() *Resolver {
	return &Resolver{
		hearingContext: regexp.MustCompile(
			`(?i)(?:Συνεδρίασε\s+δημόσια|Συνεδριασε\s+δημοσια|Συνήλθε\s+σε\s+δημόσια\s+συνεδρίαση|Συνηλθε\s+σε\s+δημοσια\s+συνεδριαση)`),
		conferenceContext: regexp.MustCompile(
			`(?i)(?:Η\s+διάσκεψη\s+έγινε|Η\s+διασκεψη\s+εγινε|Κρίθηκε\s+και\s+αποφασίσθηκε|Κριθηκε\s+και\s+αποφασισθηκε)`),
		publicationContext: regexp.MustCompile(`(?i)(?:δημοσιεύθηκε|δημοσιευθηκε)`),
		bareDate:           regexp.MustCompile(datePattern),
	}
}

// Resolve applies the kind's contextual pattern to one text region: the
// keyword must be present and a parseable date must follow it within the
// context window. The window never crosses a paragraph break, so a date in
// the following paragraph is left for the cascade's last rule. It returns
// false when no date resolves.
func (r *Resolver) Resolve(region string, kind Kind) (*DateOfInterest, bool) {
	context := r.contextFor(kind)
	loc := context.FindStringIndex(region)
	if loc == nil {
		return nil, false
	}
	end := loc[0] + contextWindow
	if end > len(region) {
		end = len(region)
	}
	if brk := strings.Index(region[loc[0]:end], "\n\n"); brk >= 0 {
		end = loc[0] + brk
	}
	doi, ok := r.extract(region[loc[0]:end], kind)
	if !ok {
		return nil, false
	}
	doi.Start += loc[0]
	doi.End += loc[0]
	doi.Region = region
	doi.Rule = RuleContextual
	return doi, true
}

// ResolvePublication runs the strict publication-date cascade over the
// conclusions paragraphs. First success wins and later rules are skipped:
//
//  1. the whole conclusions block,
//  2. each paragraph in document order,
//  3. the paragraph immediately following the one containing the
//     published-keyword, matched as a bare date.
//
// The returned paragraph index is -1 for the whole-block rule.
func (r *Resolver) ResolvePublication(paragraphs []string) (*DateOfInterest, int, bool) {
	block := strings.Join(paragraphs, "\n\n")
	if doi, ok := r.Resolve(block, DecisionPublication); ok {
		doi.Rule = RuleConclusionsBlock
		return doi, -1, true
	}

	for i, paragraph := range paragraphs {
		if doi, ok := r.Resolve(paragraph, DecisionPublication); ok {
			doi.Rule = RuleConclusionsPara
			return doi, i, true
		}
	}

	for i := 0; i < len(paragraphs)-1; i++ {
		if !strings.Contains(textnorm.Fold(paragraphs[i]), publishedKeyword) {
			continue
		}
		doi, ok := r.extract(paragraphs[i+1], DecisionPublication)
		if !ok {
			return nil, 0, false
		}
		doi.Region = paragraphs[i+1]
		doi.Rule = RulePublishedNext
		return doi, i + 1, true
	}
	return nil, 0, false
}

// ExtractDate matches a bare Greek date anywhere in the text.
func (r *Resolver) ExtractDate(text string, kind Kind) (*DateOfInterest, bool) {
	return r.extract(text, kind)
}

func (r *Resolver) extract(text string, kind Kind) (*DateOfInterest, bool) {
	for _, match := range r.bareDate.FindAllStringSubmatchIndex(text, -1) {
		day := text[match[2]:match[3]]
		monthToken := text[match[4]:match[5]]
		year := text[match[6]:match[7]]

		iso, err := ToISO(day, monthToken, year)
		if err != nil {
			continue
		}
		return &DateOfInterest{
			Kind:   kind,
			ISO:    iso,
			Region: text,
			Match:  text[match[0]:match[1]],
			Start:  match[0],
			End:    match[1],
		}, true
	}
	return nil, false
}

func (r *Resolver) contextFor(kind Kind) *regexp.Regexp {
	switch kind {
	case PublicHearing:
		return r.hearingContext
	case CourtConference:
		return r.conferenceContext
	default:
		return r.publicationContext
	}
}

// ToISO normalizes a day number, a Greek genitive month token and a year
// into YYYY-MM-DD.
func ToISO(day, monthToken, year string) (string, error) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 || d > 31 {
		return "", fmt.Errorf("invalid day %q", day)
	}
	month, ok := NormalizeMonth(monthToken)
	if !ok {
		return "", fmt.Errorf("unknown month %q", monthToken)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", fmt.Errorf("invalid year %q", year)
	}
	return fmt.Sprintf("%04d-%s-%02d", y, month, d), nil
}
