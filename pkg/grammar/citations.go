package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// CitationRewriter is the reference stage-one implementation. It recognizes
// the common Greek statute citation shapes ("άρθρο 559 του ν. 1234/1982",
// "άρθρ. 510 παρ. 1 ΚΠΔ" and the bare "ν. 4055/2012") and wraps each in a
// canonical ref marker pointing at the cited act:
//
//	<ref href="/akn/gr/act/1982/1234">άρθρο 559 του ν. 1234/1982</ref>
//
// Citations it cannot resolve are left untouched and reported as
// diagnostics, never as errors.
type CitationRewriter struct {
	articleCitation *regexp.Regexp
	codeCitation    *regexp.Regexp
}

// Greek code abbreviations with stable ontology slugs.
var codeSlugs = map[string]string{
	"ΚΠολΔ": "code-civil-procedure",
	"ΚΠΔ":   "code-criminal-procedure",
	"ΠΚ":    "penal-code",
	"ΑΚ":    "civil-code",
	"ΚΔΔ":   "code-administrative-procedure",
}

// NewCitationRewriter compiles the citation patterns once.
func NewCitationRewriter() *CitationRewriter {
	codes := make([]string, 0, len(codeSlugs))
	for code := range codeSlugs {
		codes = append(codes, regexp.QuoteMeta(code))
	}
	// deterministic alternation order
	sort.Strings(codes)

	return &CitationRewriter{
		articleCitation: regexp.MustCompile(
			`(?:άρθρο|άρθρου|άρθρα|αρθρ\.)\s+\d+[Α-Ωα-ω]?(?:\s+παρ\.\s*\d+)?` +
				`(?:\s+(?:του|της)\s+)?\s*(?:ν\.|Ν\.|νόμου)\s*(\d+)\s*/\s*(\d{4})`),
		codeCitation: regexp.MustCompile(
			`(?:άρθρο|άρθρου|άρθρα|αρθρ\.)\s+\d+[Α-Ωα-ω]?(?:\s+παρ\.\s*\d+)?` +
				`(?:\s+(?:του|της))?\s+(` + strings.Join(codes, "|") + `)`),
	}
}

// Rewrite replaces recognizable citations with ref markers. The output is
// the normalized text handed to stage two.
func (r *CitationRewriter) Rewrite(text string) (string, []Diagnostic) {
	var diags []Diagnostic

	rewritten := r.articleCitation.ReplaceAllStringFunc(text, func(citation string) string {
		m := r.articleCitation.FindStringSubmatch(citation)
		href, err := actHref(m[1], m[2])
		if err != nil {
			diags = append(diags, Diagnostic{
				Stage:   "citations",
				Message: fmt.Sprintf("unresolvable citation %q: %v", citation, err),
			})
			return citation
		}
		return refMarker(href, citation)
	})

	rewritten = r.codeCitation.ReplaceAllStringFunc(rewritten, func(citation string) string {
		if strings.Contains(citation, refMarkerOpen) {
			return citation
		}
		m := r.codeCitation.FindStringSubmatch(citation)
		return refMarker("/akn/gr/act/"+codeSlugs[m[1]], citation)
	})

	return rewritten, diags
}

func actHref(number, year string) (string, error) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1821 || y > 2100 {
		return "", fmt.Errorf("implausible year %q", year)
	}
	return fmt.Sprintf("/akn/gr/act/%s/%s", year, number), nil
}

const (
	refMarkerOpen  = `<ref href="`
	refMarkerClose = `</ref>`
)

func refMarker(href, text string) string {
	return refMarkerOpen + href + `">` + text + refMarkerClose
}

// RefMarkerPattern matches the canonical inline marker emitted by stage one,
// capturing the href and the cited text. The assembler uses it to turn
// markers back into real inline elements.
var RefMarkerPattern = regexp.MustCompile(`<ref href="([^"]*)">((?s).*?)</ref>`)
