// Package ner loads optional named-entity annotation artifacts produced by
// an external annotation pipeline and keyed by input filename. A missing or
// malformed artifact is never an error for the conversion task; entity merge
// steps simply do not run.
package ner

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jchronis/aknero/pkg/textnorm"
)

// Entity is one annotated mention.
type Entity struct {
	// Type is the normalized entity class: person, organization or location.
	Type string
	// Text is the surface form as annotated.
	Text string
	// EID is the ontology identifier derived from the surface form.
	EID string
}

// entity classes recognized in artifacts, mapped to their normalized form.
var entityClasses = map[string]string{
	"person":       "person",
	"judge":        "person",
	"lawyer":       "person",
	"organization": "organization",
	"org":          "organization",
	"court":        "organization",
	"location":     "location",
	"place":        "location",
}

// Load reads an annotation artifact. The format is tolerated loosely: any
// element whose name (or Type attribute, for GATE-style <Annotation> nodes)
// names a known entity class contributes one entity. Duplicate surface forms
// collapse to one entity.
func Load(path string) ([]Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entity artifact: %w", err)
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	var entities []Entity
	seen := make(map[string]bool)

	var pendingClass string
	var pendingText strings.Builder
	depth := 0
	captureDepth := -1

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parsing entity artifact: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if captureDepth >= 0 {
				continue
			}
			class := classify(t)
			if class != "" {
				pendingClass = class
				pendingText.Reset()
				captureDepth = depth
			}
		case xml.CharData:
			if captureDepth >= 0 {
				pendingText.Write(t)
			}
		case xml.EndElement:
			if captureDepth == depth {
				surface := strings.TrimSpace(pendingText.String())
				if surface != "" && !seen[surface] {
					seen[surface] = true
					entities = append(entities, Entity{
						Type: pendingClass,
						Text: surface,
						EID:  Slug(surface),
					})
				}
				captureDepth = -1
			}
			depth--
		}
	}
	return entities, nil
}

func classify(start xml.StartElement) string {
	name := strings.ToLower(start.Name.Local)
	if class, ok := entityClasses[name]; ok {
		return class
	}
	if name == "annotation" {
		for _, a := range start.Attr {
			if strings.EqualFold(a.Name.Local, "type") {
				if class, ok := entityClasses[strings.ToLower(a.Value)]; ok {
					return class
				}
			}
		}
	}
	return ""
}

var slugStripPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug derives a stable eId from an entity surface form.
func Slug(s string) string {
	s = textnorm.Fold(s)
	s = slugStripPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// TLCName maps a normalized entity class to its Akoma Ntoso reference
// element name.
func TLCName(class string) string {
	switch class {
	case "person":
		return "TLCPerson"
	case "location":
		return "TLCLocation"
	default:
		return "TLCOrganization"
	}
}
