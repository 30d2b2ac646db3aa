package extract

import (
	"strings"
	"testing"
)

const steJudgment = `Αριθμός 2150/2023

ΤΟ ΣΥΜΒΟΥΛΙΟ ΤΗΣ ΕΠΙΚΡΑΤΕΙΑΣ

ΤΜΗΜΑ Δ'

Συνεδρίασε δημόσια στο ακροατήριό του στις 7 Νοεμβρίου 2023.
Με την παρουσία της Γραμματέως.

Για να δικάσει την από 10 Ιανουαρίου 2022 αίτηση:
του αιτούντος, ο οποίος παρέστη με δικηγόρο.

Σκέφθηκε κατά τον Νόμο

Επειδή, με την αίτηση αυτή ζητείται η ακύρωση.`

func TestOverrideHeader(t *testing.T) {
	doc := testDocument(t, steJudgment)

	skel, diags := NewOverride().Apply(doc, Skeleton{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if skel.Header.DocNumber != "2150/2023" {
		t.Errorf("docNumber = %q", skel.Header.DocNumber)
	}
	if skel.Header.DocProponent != "ΤΟ ΣΥΜΒΟΥΛΙΟ ΤΗΣ ΕΠΙΚΡΑΤΕΙΑΣ" {
		t.Errorf("docProponent = %q", skel.Header.DocProponent)
	}
	if skel.Header.SubDepartment != "ΤΜΗΜΑ Δ'" {
		t.Errorf("subDepartment = %q", skel.Header.SubDepartment)
	}
	if !strings.Contains(skel.Header.HeaderDetails, "Συνεδρίασε δημόσια") {
		t.Errorf("headerDetails = %q", skel.Header.HeaderDetails)
	}
	if strings.Contains(skel.Header.HeaderDetails, "Για να δικάσει") {
		t.Errorf("headerDetails bleeds into introduction: %q", skel.Header.HeaderDetails)
	}
}

func TestOverrideIntroduction(t *testing.T) {
	doc := testDocument(t, steJudgment)

	skel, _ := NewOverride().Apply(doc, Skeleton{})
	if !strings.HasPrefix(skel.Introduction, "Για να δικάσει") {
		t.Errorf("introduction = %q", skel.Introduction)
	}
	if !strings.Contains(skel.Introduction, "του αιτούντος") {
		t.Errorf("introduction missing party line: %q", skel.Introduction)
	}
	// the scan stops at the motivation formula
	if strings.Contains(skel.Introduction, "Σκέφθηκε") {
		t.Errorf("introduction bleeds past motivation: %q", skel.Introduction)
	}
}

func TestOverrideHeaderMultiParagraphDetails(t *testing.T) {
	text := `Αριθμός 10/2022
ΤΟ ΣΥΜΒΟΥΛΙΟ ΤΗΣ ΕΠΙΚΡΑΤΕΙΑΣ
ΤΜΗΜΑ Γ'
Συγκροτήθηκε από τους δικαστές.

Με την παρουσία της Γραμματέως.

Για να δικάσει την αίτηση:`
	doc := testDocument(t, text)

	skel, _ := NewOverride().Apply(doc, Skeleton{})
	// a paragraph break inside the header details does not end collection
	if !strings.Contains(skel.Header.HeaderDetails, "Συγκροτήθηκε") ||
		!strings.Contains(skel.Header.HeaderDetails, "Γραμματέως") {
		t.Errorf("headerDetails = %q", skel.Header.HeaderDetails)
	}
	if strings.Contains(skel.Header.HeaderDetails, "Για να δικάσει") {
		t.Errorf("headerDetails bleeds into introduction: %q", skel.Header.HeaderDetails)
	}
}

func TestOverrideHeaderAnySubDepartmentLine(t *testing.T) {
	// plenum filings carry no chamber label under the court name
	text := "Αριθμ. 7/2021\nΤΟ ΣΥΜΒΟΥΛΙΟ ΤΗΣ ΕΠΙΚΡΑΤΕΙΑΣ\nΟΛΟΜΕΛΕΙΑ\nΣυνεδρίασε δημόσια.\n\nΓια να δικάσει:"
	doc := testDocument(t, text)

	skel, _ := NewOverride().Apply(doc, Skeleton{})
	if skel.Header.SubDepartment != "ΟΛΟΜΕΛΕΙΑ" {
		t.Errorf("subDepartment = %q", skel.Header.SubDepartment)
	}
	if skel.Header.HeaderDetails != "Συνεδρίασε δημόσια." {
		t.Errorf("headerDetails = %q", skel.Header.HeaderDetails)
	}
}

func TestOverrideAllOrNothing(t *testing.T) {
	// neither a decision-number line nor the trial formula anywhere
	text := "Πρακτικά συνεδρίασης\nΧωρίς τα συνήθη στοιχεία\nΚείμενο αποφάσεως."
	doc := testDocument(t, text)

	original := Skeleton{
		Header:       HeaderFields{DocNumber: "1/2020", HeaderDetails: "as extracted"},
		Introduction: "as extracted",
	}
	skel, diags := NewOverride().Apply(doc, original)

	if skel.Header.HeaderDetails != "as extracted" {
		t.Errorf("header replaced despite unrecognized layout: %q", skel.Header.HeaderDetails)
	}
	if skel.Introduction != "as extracted" {
		t.Errorf("introduction replaced despite missing formula: %q", skel.Introduction)
	}
	if len(diags) != 2 {
		t.Errorf("expected two skip diagnostics, got %v", diags)
	}
}

func TestOverrideIndependent(t *testing.T) {
	// valid header layout, but no trial formula anywhere
	text := "Αριθμ. 5/2021\nΤΟ ΣΥΜΒΟΥΛΙΟ ΤΗΣ ΕΠΙΚΡΑΤΕΙΑΣ\nΤΜΗΜΑ Β'\nΛεπτομέρειες σύνθεσης.\n\nΥπόλοιπο κείμενο."
	doc := testDocument(t, text)

	skel, diags := NewOverride().Apply(doc, Skeleton{Introduction: "kept"})
	if skel.Header.DocNumber != "5/2021" {
		t.Errorf("docNumber = %q", skel.Header.DocNumber)
	}
	if skel.Introduction != "kept" {
		t.Errorf("introduction = %q, want untouched", skel.Introduction)
	}
	if len(diags) != 1 {
		t.Errorf("expected one skip diagnostic, got %v", diags)
	}
}
