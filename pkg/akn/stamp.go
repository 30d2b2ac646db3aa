package akn

import (
	"github.com/jchronis/aknero/pkg/dates"
)

// StampDate applies the four bibliographic side effects of a resolved date
// of interest as one unit: a workflow step inserted at the front of the
// workflow sequence, a TLCEvent appended to the references, and the work-
// and expression-level FRBRdate stamps set to the same date and kind name.
// If any of the four target nodes is missing nothing is touched and the
// function reports false without partial application.
func StampDate(root *Element, doi *dates.DateOfInterest, author string) bool {
	workflow := root.Find("judgment", "meta", "workflow")
	references := root.Find("judgment", "meta", "references")
	workDate := root.Find("judgment", "meta", "identification", "FRBRWork", "FRBRdate")
	exprDate := root.Find("judgment", "meta", "identification", "FRBRExpression", "FRBRdate")
	if workflow == nil || references == nil || workDate == nil || exprDate == nil {
		return false
	}

	kind := string(doi.Kind)
	step := NewElement("step",
		Attr{"date", doi.ISO},
		Attr{"by", author},
		Attr{"refersTo", "#" + kind})
	workflow.InsertFront(step)

	references.Append(NewElement("TLCEvent",
		Attr{"eId", kind},
		Attr{"href", "/ontology/event/" + kind},
		Attr{"showAs", kind}))

	workDate.SetAttr("date", doi.ISO)
	workDate.SetAttr("name", kind)
	exprDate.SetAttr("date", doi.ISO)
	exprDate.SetAttr("name", kind)
	return true
}
