package grammar

import (
	"regexp"
	"strings"

	"github.com/jchronis/aknero/pkg/textnorm"
)

// JudgmentParser is the reference stage-two implementation. It segments the
// normalized text at the judgment's structural formulas and produces the
// walkable tree the extractor folds into a skeleton. Missing formulas narrow
// the tree instead of failing it; each one missing is a diagnostic.
type JudgmentParser struct {
	headerEnd   *regexp.Regexp
	motivation  []*regexp.Regexp
	decision    []*regexp.Regexp
	conclusions []*regexp.Regexp
	outcome     *regexp.Regexp
}

// OutcomeVerbs are the verdict verbs a decision's operative sentence starts
// with.
var OutcomeVerbs = []string{
	"Απορρίπτει", "Αναιρεί", "Δέχεται", "Παραπέμπει",
	"Κηρύσσει", "Καταδικάζει", "Επιβάλλει", "Διατάσσει",
}

// NewJudgmentParser compiles the structural formulas once.
func NewJudgmentParser() *JudgmentParser {
	return &JudgmentParser{
		headerEnd: textnorm.SpacedPattern("Για να δικάσει"),
		motivation: []*regexp.Regexp{
			textnorm.SpacedPattern("Σκέφθηκε κατά τον Νόμο"),
			textnorm.SpacedPattern("Σκέφτηκε σύμφωνα με τον Νόμο"),
		},
		decision: []*regexp.Regexp{
			textnorm.SpacedPattern("Διατάυτα"),
			textnorm.SpacedPattern("Δια ταύτα"),
			textnorm.SpacedPattern("ΓΙΑ ΤΟΥΣ ΛΟΓΟΥΣ ΑΥΤΟΥΣ"),
		},
		conclusions: []*regexp.Regexp{
			textnorm.SpacedPattern("Η διάσκεψη έγινε"),
			textnorm.SpacedPattern("Κρίθηκε και αποφασίσθηκε"),
		},
		outcome: regexp.MustCompile(`(?:` + strings.Join(OutcomeVerbs, "|") + `)[^.\n]*[.\n]`),
	}
}

// Parse builds the structural tree. Offsets are found on the folded shadow
// of the text and mapped back, so the tree carries original spellings.
func (p *JudgmentParser) Parse(text string) (*Node, []Diagnostic) {
	var diags []Diagnostic
	folded := textnorm.Fold(text)

	offsetOf := func(patterns []*regexp.Regexp, what string) int {
		for _, pattern := range patterns {
			if loc := pattern.FindStringIndex(folded); loc != nil {
				return textnorm.ByteOffset(text, folded, loc[0])
			}
		}
		diags = append(diags, Diagnostic{Stage: "structure", Message: what + " formula not found"})
		return len(text)
	}

	introStart := 0
	if loc := p.headerEnd.FindStringIndex(folded); loc != nil {
		introStart = textnorm.ByteOffset(text, folded, loc[0])
	} else {
		diags = append(diags, Diagnostic{Stage: "structure", Message: "trial formula not found"})
	}
	motivationStart := offsetOf(p.motivation, "motivation")
	decisionStart := offsetOf(p.decision, "decision")
	conclusionsStart := offsetOf(p.conclusions, "conclusions")

	bodyEnd := min3(motivationStart, decisionStart, len(text))
	if conclusionsStart < bodyEnd {
		bodyEnd = conclusionsStart
	}

	root := &Node{Kind: KindJudgment}
	if introStart > 0 {
		root.Children = append(root.Children,
			sectionNode(KindHeader, text[:introStart]))
	}
	root.Children = append(root.Children,
		sectionNode(KindIntroduction, text[introStart:bodyEnd]))

	if motivationStart < len(text) {
		end := min3(decisionStart, conclusionsStart, len(text))
		if end < motivationStart {
			end = motivationStart
		}
		root.Children = append(root.Children,
			sectionNode(KindMotivation, text[motivationStart:end]))
	}

	if decisionStart < len(text) {
		end := conclusionsStart
		if end < decisionStart {
			end = len(text)
		}
		decision := sectionNode(KindDecision, text[decisionStart:end])
		if outcome := p.findOutcome(text[decisionStart:end]); outcome != "" {
			decision.Children = append([]*Node{{Kind: KindOutcome, Text: outcome}},
				decision.Children...)
		}
		root.Children = append(root.Children, decision)
	}

	if conclusionsStart < len(text) {
		root.Children = append(root.Children,
			sectionNode(KindConclusions, text[conclusionsStart:]))
	}

	return root, diags
}

// findOutcome picks the first verdict-verb sentence, falling back to the
// first non-blank line of the span.
func (p *JudgmentParser) findOutcome(span string) string {
	if m := p.outcome.FindString(span); m != "" {
		return strings.TrimSpace(strings.TrimSuffix(m, "\n"))
	}
	for _, line := range strings.Split(span, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func sectionNode(kind NodeKind, span string) *Node {
	section := &Node{Kind: kind, Text: strings.TrimSpace(span)}
	for _, paragraph := range strings.Split(span, "\n") {
		if trimmed := strings.TrimSpace(paragraph); trimmed != "" {
			section.Children = append(section.Children,
				&Node{Kind: KindParagraph, Text: trimmed})
		}
	}
	return section
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
