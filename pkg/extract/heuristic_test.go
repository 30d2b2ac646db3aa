package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/jchronis/aknero/pkg/textnorm"
)

const testJudgment = `Αριθμός 123/2024

ΤΟ ΔΙΚΑΣΤΗΡΙΟ ΤΟΥ ΑΡΕΙΟΥ ΠΑΓΟΥ

Α1' Πολιτικό ΤΜΗΜΑ

Συγκροτήθηκε από τους Δικαστές.
Συνεδρίασε δημόσια στο ακροατήριό του στις 14 Μαρτίου 2023 για να δικάσει.

Σκέφθηκε κατά τον Νόμο

Κατά τη διάταξη του άρθρου 559 ΚΠολΔ ιδρύεται λόγος αναίρεσης.

ΓΙΑ ΤΟΥΣ ΛΟΓΟΥΣ ΑΥΤΟΥΣ

Απορρίπτει την αίτηση αναίρεσης.
Καταδικάζει τον αναιρεσείοντα στα δικαστικά έξοδα.

Κρίθηκε και αποφασίσθηκε στην Αθήνα στις 2 Φεβρουαρίου 2024.
Δημοσιεύθηκε στις 20 Φεβρουαρίου 2024.`

func testDocument(t *testing.T, text string) *textnorm.RawDocument {
	t.Helper()
	return &textnorm.RawDocument{
		Filename:  "A 123_2024.txt",
		Authority: "areios_pagos",
		Text:      text,
		Folded:    textnorm.Fold(text),
	}
}

func TestHeuristicExtract(t *testing.T) {
	result, err := NewHeuristic().Extract(testDocument(t, testJudgment))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	s := result.Skeleton

	if s.Header.DocNumber != "123/2024" {
		t.Errorf("docNumber = %q, want 123/2024", s.Header.DocNumber)
	}
	if s.Header.DocProponent != "ΤΟ ΔΙΚΑΣΤΗΡΙΟ ΤΟΥ ΑΡΕΙΟΥ ΠΑΓΟΥ" {
		t.Errorf("docProponent = %q", s.Header.DocProponent)
	}
	if !strings.Contains(s.Header.SubDepartment, "ΤΜΗΜΑ") {
		t.Errorf("subDepartment = %q", s.Header.SubDepartment)
	}
	if !strings.Contains(s.Introduction, "Συνεδρίασε δημόσια") {
		t.Errorf("introduction missing hearing line: %q", s.Introduction)
	}
	if strings.Contains(s.Introduction, "Σκέφθηκε") {
		t.Errorf("introduction bleeds into motivation: %q", s.Introduction)
	}
	if !strings.HasPrefix(s.Motivation, "Σκέφθηκε κατά τον Νόμο") {
		t.Errorf("motivation = %q", s.Motivation)
	}
	if !strings.HasPrefix(s.Decision.Details, "ΓΙΑ ΤΟΥΣ ΛΟΓΟΥΣ ΑΥΤΟΥΣ") {
		t.Errorf("decision = %q", s.Decision.Details)
	}
	if s.Decision.Outcome != "Απορρίπτει την αίτηση αναίρεσης." {
		t.Errorf("outcome = %q", s.Decision.Outcome)
	}
	if !strings.HasPrefix(s.Conclusions, "Κρίθηκε και αποφασίσθηκε") {
		t.Errorf("conclusions = %q", s.Conclusions)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
	}
}

func TestHeuristicNoMarkers(t *testing.T) {
	text := "Αριθμός 5/2020\nΤΟ ΔΙΚΑΣΤΗΡΙΟ ΤΟΥ ΑΡΕΙΟΥ ΠΑΓΟΥ\nΚείμενο χωρίς δείκτες ενοτήτων."

	result, err := NewHeuristic().Extract(testDocument(t, text))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// without markers the whole text degrades to the introduction
	if result.Skeleton.Introduction != strings.TrimSpace(text) {
		t.Errorf("introduction = %q", result.Skeleton.Introduction)
	}
	if result.Skeleton.Motivation != "" || result.Skeleton.Conclusions != "" {
		t.Error("expected empty regions without markers")
	}
	if len(result.Diagnostics) != 3 {
		t.Errorf("expected 3 segmentation diagnostics, got %v", result.Diagnostics)
	}
}

func TestHeuristicMissingFields(t *testing.T) {
	text := "Κείμενο χωρίς αριθμό και χωρίς δικαστήριο."

	_, err := NewHeuristic().Extract(testDocument(t, text))
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(missing.Fields) != 2 {
		t.Errorf("expected docNumber and court missing, got %v", missing.Fields)
	}
}

func TestHeuristicSpacedMarkers(t *testing.T) {
	text := "Αριθμός 7/2021\nΤΟ ΔΙΚΑΣΤΗΡΙΟ ΤΟΥ ΑΡΕΙΟΥ ΠΑΓΟΥ\nεισαγωγή\nΣ κ έ φ θ η κ ε  κ α τ ά  τ ο ν  Ν ό μ ο\nαιτιολογία"

	result, err := NewHeuristic().Extract(testDocument(t, text))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(result.Skeleton.Motivation, "αιτιολογία") {
		t.Errorf("spaced marker not recognized, motivation = %q", result.Skeleton.Motivation)
	}
}

func TestGrammarExtract(t *testing.T) {
	result, err := NewGrammar(nil, nil).Extract(testDocument(t, testJudgment))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	s := result.Skeleton

	if s.Header.DocNumber != "123/2024" {
		t.Errorf("docNumber = %q", s.Header.DocNumber)
	}
	if !strings.Contains(s.Motivation, "559") {
		t.Errorf("motivation = %q", s.Motivation)
	}
	if !strings.Contains(s.Decision.Outcome, "Απορρίπτει") {
		t.Errorf("outcome = %q", s.Decision.Outcome)
	}
	if !strings.Contains(s.Conclusions, "Δημοσιεύθηκε") {
		t.Errorf("conclusions = %q", s.Conclusions)
	}

	// the rewriter marks the citation before the tree is built
	if !strings.Contains(s.Motivation, `<ref href=`) {
		t.Errorf("expected citation marker in motivation: %q", s.Motivation)
	}
}
