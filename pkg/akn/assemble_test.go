package akn

import (
	"strings"
	"testing"

	"github.com/jchronis/aknero/pkg/extract"
	"github.com/jchronis/aknero/pkg/ner"
)

func testSkeleton() extract.Skeleton {
	return extract.Skeleton{
		Header: extract.HeaderFields{
			DocNumber:     "123/2024",
			DocProponent:  "ΤΟ ΔΙΚΑΣΤΗΡΙΟ ΤΟΥ ΑΡΕΙΟΥ ΠΑΓΟΥ",
			SubDepartment: "ΤΜΗΜΑ Α1",
			HeaderDetails: "Συγκροτήθηκε από τους Δικαστές.",
		},
		Introduction: "Συνεδρίασε δημόσια στο ακροατήριό του στις 14 Μαρτίου 2023 για να δικάσει.",
		Motivation:   "Κατά τη διάταξη του άρθρου 559 ΚΠολΔ.",
		Decision: extract.Decision{
			Outcome: "Απορρίπτει την αίτηση αναίρεσης.",
			Details: "Καταδικάζει τον αναιρεσείοντα στα δικαστικά έξοδα.",
		},
		Conclusions: "Κρίθηκε και αποφασίσθηκε στην Αθήνα στις 2 Φεβρουαρίου 2024.\nΔημοσιεύθηκε στις 20 Φεβρουαρίου 2024.",
	}
}

func TestAssembleChildOrder(t *testing.T) {
	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: testSkeleton()})

	judgment := root.Child("judgment")
	if judgment == nil {
		t.Fatal("judgment element missing")
	}

	want := []string{"meta", "header", "judgmentBody", "conclusions"}
	if len(judgment.Nodes) != len(want) {
		t.Fatalf("expected %d judgment children, got %d", len(want), len(judgment.Nodes))
	}
	for i, name := range want {
		child := judgment.Nodes[i].(*Element)
		if child.Name != name {
			t.Errorf("judgment child %d = %q, want %q", i, child.Name, name)
		}
	}

	body := judgment.Child("judgmentBody")
	bodyWant := []string{"introduction", "motivation", "decision"}
	for i, name := range bodyWant {
		child := body.Nodes[i].(*Element)
		if child.Name != name {
			t.Errorf("body child %d = %q, want %q", i, child.Name, name)
		}
	}
}

func TestAssembleHeader(t *testing.T) {
	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: testSkeleton()})

	header := root.Find("judgment", "header")
	docNumber := header.FindAll("docNumber")
	if len(docNumber) != 1 || docNumber[0].TextContent() != "123/2024" {
		t.Errorf("unexpected docNumber: %v", docNumber)
	}
	proponent := header.FindAll("docProponent")
	if len(proponent) != 1 {
		t.Fatalf("expected one docProponent, got %d", len(proponent))
	}
	if proponent[0].Attr("refersTo") != "#SCCC" {
		t.Errorf("docProponent refersTo = %q", proponent[0].Attr("refersTo"))
	}
}

func TestAssembleResolvesDates(t *testing.T) {
	root, resolved := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: testSkeleton()})

	byKind := make(map[string]string)
	for _, doi := range resolved {
		byKind[string(doi.Kind)] = doi.ISO
	}
	if byKind["publicHearingDate"] != "2023-03-14" {
		t.Errorf("hearing date = %q, want 2023-03-14", byKind["publicHearingDate"])
	}
	if byKind["courtConferenceDate"] != "2024-02-02" {
		t.Errorf("conference date = %q, want 2024-02-02", byKind["courtConferenceDate"])
	}
	if byKind["decisionPublicationDate"] != "2024-02-20" {
		t.Errorf("publication date = %q, want 2024-02-20", byKind["decisionPublicationDate"])
	}

	// the FRBR stamps carry the publication date, applied last
	workDate := root.Find("judgment", "meta", "identification", "FRBRWork", "FRBRdate")
	if workDate.Attr("date") != "2024-02-20" {
		t.Errorf("FRBRdate = %q, want 2024-02-20", workDate.Attr("date"))
	}

	// one workflow step per resolved date, publication first
	workflow := root.Find("judgment", "meta", "workflow")
	steps := workflow.Children("step")
	if len(steps) != 3 {
		t.Fatalf("expected 3 workflow steps, got %d", len(steps))
	}
	if steps[0].Attr("refersTo") != "#decisionPublicationDate" {
		t.Errorf("first step = %q", steps[0].Attr("refersTo"))
	}
}

func TestAssembleDateMarkup(t *testing.T) {
	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: testSkeleton()})

	found := 0
	for _, date := range root.FindAll("date") {
		if date.Attr("date") == "2023-03-14" && date.TextContent() == "14 Μαρτίου 2023" {
			found++
		}
	}
	if found != 1 {
		t.Errorf("expected exactly one marked hearing date, found %d", found)
	}
}

func TestAssembleOutcomeBlock(t *testing.T) {
	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: testSkeleton()})

	decision := root.Find("judgment", "judgmentBody", "decision")
	block, ok := decision.Nodes[0].(*Element)
	if !ok || block.Name != "block" || block.Attr("name") != "outcome" {
		t.Fatalf("expected outcome block first in decision, got %v", decision.Nodes[0])
	}
	if !strings.Contains(block.TextContent(), "Απορρίπτει") {
		t.Errorf("outcome text missing, got %q", block.TextContent())
	}
}

func TestAssembleEntities(t *testing.T) {
	skeleton := testSkeleton()
	skeleton.Motivation = "Ο δικηγόρος Γεώργιος Παπαδόπουλος κατέθεσε προτάσεις."
	entities := []ner.Entity{
		{Type: "person", Text: "Γεώργιος Παπαδόπουλος", EID: ner.Slug("Γεώργιος Παπαδόπουλος")},
	}

	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: skeleton, Entities: entities})

	persons := root.FindAll("person")
	if len(persons) == 0 {
		t.Fatal("expected person markup in body")
	}
	if persons[0].Attr("refersTo") != "#"+entities[0].EID {
		t.Errorf("person refersTo = %q", persons[0].Attr("refersTo"))
	}

	references := root.Find("judgment", "meta", "references")
	tlc := references.Children("TLCPerson")
	if len(tlc) != 1 {
		t.Fatalf("expected one TLCPerson reference, got %d", len(tlc))
	}
	if tlc[0].Attr("showAs") != "Γεώργιος Παπαδόπουλος" {
		t.Errorf("TLCPerson showAs = %q", tlc[0].Attr("showAs"))
	}
}

func TestAssembleRefMarkers(t *testing.T) {
	skeleton := testSkeleton()
	skeleton.Motivation = `Κατά το <ref href="/akn/gr/act/1946/2812">άρθρο 559 ΚΠολΔ</ref> ιδρύεται λόγος.`

	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: skeleton})

	motivation := root.Find("judgment", "judgmentBody", "motivation")
	refs := motivation.FindAll("ref")
	if len(refs) != 1 {
		t.Fatalf("expected one ref element, got %d", len(refs))
	}
	if refs[0].Attr("href") != "/akn/gr/act/1946/2812" {
		t.Errorf("ref href = %q", refs[0].Attr("href"))
	}
	if refs[0].TextContent() != "άρθρο 559 ΚΠολΔ" {
		t.Errorf("ref text = %q", refs[0].TextContent())
	}
	if strings.Contains(motivation.TextContent(), "<ref") {
		t.Error("marker text leaked into content")
	}
}

func TestAssembleSerializes(t *testing.T) {
	root, _ := NewAssembler().Assemble(Input{Meta: testMeta(), Skeleton: testSkeleton()})
	if _, err := Serialize(root); err != nil {
		t.Fatalf("assembled tree failed to serialize: %v", err)
	}
}
