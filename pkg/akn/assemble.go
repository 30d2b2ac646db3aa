package akn

import (
	"sort"
	"strings"

	"github.com/jchronis/aknero/pkg/dates"
	"github.com/jchronis/aknero/pkg/extract"
	"github.com/jchronis/aknero/pkg/grammar"
	"github.com/jchronis/aknero/pkg/ner"
)

const aknNamespace = "http://docs.oasis-open.org/legaldocml/ns/akn/3.0"

// Input is everything the assembler needs for one judgment.
type Input struct {
	Meta     Meta
	Skeleton extract.Skeleton
	Entities []ner.Entity
}

// Assembler builds the complete document tree for one judgment. A worker
// constructs one Assembler and reuses it across tasks.
type Assembler struct {
	resolver *dates.Resolver
}

func NewAssembler() *Assembler {
	return &Assembler{resolver: dates.NewResolver()}
}

// Assemble builds the tree in its fixed child order, marks up dates, entity
// mentions and citation references inline, and stamps every resolved date of
// interest into the bibliographic metadata. The resolved dates are returned
// in application order for the task log.
func (a *Assembler) Assemble(in Input) (*Element, []*dates.DateOfInterest) {
	header := FixText(in.Skeleton.Header.HeaderDetails)
	intro := FixText(in.Skeleton.Introduction)
	motivation := FixText(in.Skeleton.Motivation)
	outcome := FixText(in.Skeleton.Decision.Outcome)
	details := FixText(in.Skeleton.Decision.Details)
	conclusions := FixText(in.Skeleton.Conclusions)

	resolved := a.resolveDates(header, intro, conclusions)
	marks := dateMarks(resolved)

	root := NewElement("akomaNtoso", Attr{"xmlns", aknNamespace})
	judgment := NewElement("judgment", Attr{"name", "judgment"})
	root.Append(judgment)

	meta := BuildMeta(in.Meta)
	appendEntityReferences(meta, in.Entities)
	judgment.Append(meta)

	judgment.Append(a.buildHeader(in, header, marks))

	body := NewElement("judgmentBody")
	body.Append(a.buildSection("introduction", intro, in.Entities, marks))
	body.Append(a.buildSection("motivation", motivation, in.Entities, marks))
	body.Append(a.buildDecision(outcome, details, in.Entities, marks))
	judgment.Append(body)

	judgment.Append(a.buildSection("conclusions", conclusions, in.Entities, marks))

	for _, doi := range resolved {
		StampDate(root, doi, in.Meta.Author)
	}
	return root, resolved
}

// resolveDates runs the three date resolutions: the public hearing over the
// header and introduction, the court conference over the conclusions, and
// the publication cascade over the conclusions paragraphs.
func (a *Assembler) resolveDates(header, intro, conclusions string) []*dates.DateOfInterest {
	var resolved []*dates.DateOfInterest

	hearingRegion := strings.TrimSpace(header + "\n\n" + intro)
	if doi, ok := a.resolver.Resolve(hearingRegion, dates.PublicHearing); ok {
		resolved = append(resolved, doi)
	}
	if doi, ok := a.resolver.Resolve(conclusions, dates.CourtConference); ok {
		resolved = append(resolved, doi)
	}
	if doi, _, ok := a.resolver.ResolvePublication(SplitParagraphs(conclusions)); ok {
		resolved = append(resolved, doi)
	}
	return resolved
}

func (a *Assembler) buildHeader(in Input, details string, marks []*dateMark) *Element {
	header := NewElement("header")

	if n := in.Skeleton.Header.DocNumber; n != "" {
		p := NewElement("p")
		p.Append(NewElement("docNumber").AppendText(n))
		header.Append(p)
	}
	if prop := in.Skeleton.Header.DocProponent; prop != "" {
		p := NewElement("p")
		p.Append(NewElement("docProponent",
			Attr{"refersTo", in.Meta.Author}).AppendText(prop))
		header.Append(p)
	}
	if dept := in.Skeleton.Header.SubDepartment; dept != "" {
		header.Append(P(dept))
	}
	for _, paragraph := range SplitParagraphs(details) {
		header.Append(buildParagraph(paragraph, in.Entities, marks))
	}
	return header
}

func (a *Assembler) buildSection(name, text string, entities []ner.Entity, marks []*dateMark) *Element {
	section := NewElement(name)
	for _, paragraph := range SplitParagraphs(text) {
		section.Append(buildParagraph(paragraph, entities, marks))
	}
	return section
}

// buildDecision places the outcome block before the narrative details.
func (a *Assembler) buildDecision(outcome, details string, entities []ner.Entity, marks []*dateMark) *Element {
	decision := NewElement("decision")
	if outcome != "" {
		block := NewElement("block", Attr{"name", "outcome"})
		block.Append(buildParagraph(outcome, entities, marks))
		decision.Append(block)
	}
	for _, paragraph := range SplitParagraphs(details) {
		decision.Append(buildParagraph(paragraph, entities, marks))
	}
	return decision
}

// dateMark is one resolved date phrase awaiting inline markup. Each mark is
// applied once, in the first paragraph that contains its phrase.
type dateMark struct {
	match string
	iso   string
	used  bool
}

func dateMarks(resolved []*dates.DateOfInterest) []*dateMark {
	var marks []*dateMark
	for _, doi := range resolved {
		marks = append(marks, &dateMark{match: doi.Match, iso: doi.ISO})
	}
	return marks
}

// span is one inline element claiming a byte range of a paragraph.
type span struct {
	start, end int
	node       *Element
}

// buildParagraph turns one paragraph of body text into a <p> with inline
// markup: citation reference markers become <ref> elements, resolved date
// phrases become <date> elements, and entity mentions are wrapped in their
// class element. Overlapping claims are settled in that priority order; a
// losing claim stays plain text.
func buildParagraph(paragraph string, entities []ner.Entity, marks []*dateMark) *Element {
	var spans []span

	for _, m := range grammar.RefMarkerPattern.FindAllStringSubmatchIndex(paragraph, -1) {
		href := paragraph[m[2]:m[3]]
		cited := paragraph[m[4]:m[5]]
		spans = append(spans, span{
			start: m[0],
			end:   m[1],
			node:  NewElement("ref", Attr{"href", href}).AppendText(cited),
		})
	}

	for _, mark := range marks {
		if mark.used {
			continue
		}
		at := strings.Index(paragraph, mark.match)
		if at < 0 {
			continue
		}
		mark.used = true
		spans = append(spans, span{
			start: at,
			end:   at + len(mark.match),
			node:  NewElement("date", Attr{"date", mark.iso}).AppendText(mark.match),
		})
	}

	for _, entity := range entities {
		for at := 0; ; {
			i := strings.Index(paragraph[at:], entity.Text)
			if i < 0 {
				break
			}
			start := at + i
			spans = append(spans, span{
				start: start,
				end:   start + len(entity.Text),
				node: NewElement(entity.Type,
					Attr{"refersTo", "#" + entity.EID}).AppendText(entity.Text),
			})
			at = start + len(entity.Text)
		}
	}

	// spans were collected in priority order; accept each one unless it
	// overlaps an already accepted claim
	var accepted []span
	for _, s := range spans {
		overlaps := false
		for _, kept := range accepted {
			if s.start < kept.end && kept.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, s)
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })

	p := NewElement("p")
	cursor := 0
	for _, s := range accepted {
		if s.start > cursor {
			p.AppendText(paragraph[cursor:s.start])
		}
		p.Append(s.node)
		cursor = s.end
	}
	if cursor < len(paragraph) {
		p.AppendText(paragraph[cursor:])
	}
	return p
}

// appendEntityReferences adds one TLC reference per entity to the meta
// references block, after the fixed organization and original entries.
func appendEntityReferences(meta *Element, entities []ner.Entity) {
	refs := meta.Child("references")
	if refs == nil {
		return
	}
	seen := make(map[string]bool)
	for _, entity := range entities {
		if entity.EID == "" || seen[entity.EID] {
			continue
		}
		seen[entity.EID] = true
		refs.Append(NewElement(ner.TLCName(entity.Type),
			Attr{"eId", entity.EID},
			Attr{"href", "/ontology/" + entity.Type + "/gr/" + entity.EID},
			Attr{"showAs", entity.Text}))
	}
}
