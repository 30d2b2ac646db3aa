package ner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "A 123_2024.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadElementNames(t *testing.T) {
	path := writeArtifact(t, `<doc>
  <person>Γεώργιος Παπαδόπουλος</person>
  <court>Άρειος Πάγος</court>
  <location>Αθήνα</location>
  <irrelevant>κείμενο</irrelevant>
</doc>`)

	entities, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities, got %d: %v", len(entities), entities)
	}

	byText := make(map[string]Entity)
	for _, e := range entities {
		byText[e.Text] = e
	}
	if byText["Γεώργιος Παπαδόπουλος"].Type != "person" {
		t.Errorf("person class = %q", byText["Γεώργιος Παπαδόπουλος"].Type)
	}
	// court normalizes to organization
	if byText["Άρειος Πάγος"].Type != "organization" {
		t.Errorf("court class = %q", byText["Άρειος Πάγος"].Type)
	}
	if byText["Αθήνα"].Type != "location" {
		t.Errorf("location class = %q", byText["Αθήνα"].Type)
	}
}

func TestLoadGateAnnotations(t *testing.T) {
	path := writeArtifact(t, `<GateDocument>
  <AnnotationSet>
    <Annotation Type="Judge">Ιωάννης Ιωάννου</Annotation>
    <Annotation Type="Org">Συμβούλιο της Επικρατείας</Annotation>
    <Annotation Type="Token">και</Annotation>
  </AnnotationSet>
</GateDocument>`)

	entities, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %v", entities)
	}
	if entities[0].Type != "person" {
		t.Errorf("judge class = %q", entities[0].Type)
	}
}

func TestLoadDeduplicates(t *testing.T) {
	path := writeArtifact(t, `<doc>
  <person>Μαρία Νίκου</person>
  <person>Μαρία Νίκου</person>
</doc>`)

	entities, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entities) != 1 {
		t.Errorf("expected duplicate surfaces collapsed, got %v", entities)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeArtifact(t, `<doc><person>άκλειστο`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed artifact")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Γεώργιος Παπαδόπουλος", "γεωργιοσ-παπαδοπουλοσ"},
		{"Άρειος Πάγος", "αρειοσ-παγοσ"},
		{"  Αθήνα  ", "αθηνα"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTLCName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"person", "TLCPerson"},
		{"location", "TLCLocation"},
		{"organization", "TLCOrganization"},
	}
	for _, tt := range tests {
		if got := TLCName(tt.in); got != tt.want {
			t.Errorf("TLCName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
