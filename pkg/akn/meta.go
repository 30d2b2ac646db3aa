package akn

import (
	"fmt"
	"strings"
)

// Meta carries the bibliographic identity of one judgment, assembled from
// the filename convention and, when available, the sidecar metadata file.
type Meta struct {
	TextType       string // always "judgment"
	Author         string // ontology reference, e.g. "#SCCC" or "#COS"
	Foreas         string // issuing authority code, e.g. "SCCC"
	DecisionNumber string
	IssueYear      string
	ECLI           string // optional
	// PublicationDate is the sidecar-provided ISO date, when known. The
	// resolved decisionPublicationDate later overrides the FRBR stamps.
	PublicationDate string
}

// WorkURI is the FRBR work-level URI for this judgment.
func (m Meta) WorkURI() string {
	return fmt.Sprintf("/akn/gr/%s/%s/%s/%s",
		m.TextType, strings.ToLower(m.Foreas), m.IssueYear, m.DecisionNumber)
}

// baseDate is the date used for FRBR nodes before any date of interest is
// resolved. Derived from metadata only, never from the wall clock, so that
// output is reproducible.
func (m Meta) baseDate() string {
	if m.PublicationDate != "" {
		return m.PublicationDate
	}
	if m.IssueYear != "" {
		return m.IssueYear + "-01-01"
	}
	return "0001-01-01"
}

// BuildMeta builds the meta node with its fixed child order: identification,
// lifecycle, workflow, references.
func BuildMeta(m Meta) *Element {
	meta := NewElement("meta")
	meta.Append(buildIdentification(m))
	meta.Append(buildLifecycle(m))
	meta.Append(NewElement("workflow", Attr{"source", m.Author}))
	meta.Append(buildReferences(m))
	return meta
}

func buildIdentification(m Meta) *Element {
	uri := m.WorkURI()
	date := m.baseDate()

	work := NewElement("FRBRWork")
	work.Append(NewElement("FRBRthis", Attr{"value", uri + "/main"}))
	work.Append(NewElement("FRBRuri", Attr{"value", uri}))
	if m.ECLI != "" {
		work.Append(NewElement("FRBRalias", Attr{"value", m.ECLI}, Attr{"name", "ECLI"}))
	}
	work.Append(NewElement("FRBRdate", Attr{"date", date}, Attr{"name", "generation"}))
	work.Append(NewElement("FRBRauthor", Attr{"href", m.Author}))
	work.Append(NewElement("FRBRcountry", Attr{"value", "gr"}))

	expr := NewElement("FRBRExpression")
	expr.Append(NewElement("FRBRthis", Attr{"value", uri + "/ell@/main"}))
	expr.Append(NewElement("FRBRuri", Attr{"value", uri + "/ell@"}))
	expr.Append(NewElement("FRBRdate", Attr{"date", date}, Attr{"name", "generation"}))
	expr.Append(NewElement("FRBRauthor", Attr{"href", m.Author}))
	expr.Append(NewElement("FRBRlanguage", Attr{"language", "ell"}))

	manif := NewElement("FRBRManifestation")
	manif.Append(NewElement("FRBRthis", Attr{"value", uri + "/ell@/main.xml"}))
	manif.Append(NewElement("FRBRuri", Attr{"value", uri + "/ell@.akn"}))
	manif.Append(NewElement("FRBRdate", Attr{"date", date}, Attr{"name", "transformation"}))
	manif.Append(NewElement("FRBRauthor", Attr{"href", m.Author}))

	identification := NewElement("identification", Attr{"source", m.Author})
	identification.Append(work, expr, manif)
	return identification
}

func buildLifecycle(m Meta) *Element {
	lifecycle := NewElement("lifecycle", Attr{"source", m.Author})
	lifecycle.Append(NewElement("eventRef",
		Attr{"eId", "e1"},
		Attr{"date", m.baseDate()},
		Attr{"source", "#original"},
		Attr{"type", "generation"}))
	return lifecycle
}

func buildReferences(m Meta) *Element {
	refs := NewElement("references", Attr{"source", m.Author})
	refs.Append(NewElement("TLCOrganization",
		Attr{"eId", strings.TrimPrefix(m.Author, "#")},
		Attr{"href", "/ontology/organization/gr/" + strings.ToLower(m.Foreas)},
		Attr{"showAs", m.Foreas}))
	refs.Append(NewElement("original",
		Attr{"eId", "original"},
		Attr{"href", m.WorkURI() + "/main"},
		Attr{"showAs", "Original"}))
	return refs
}
