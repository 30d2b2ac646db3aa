// Package extract produces a document skeleton, header fields plus the four
// body regions, from raw judgment text. Two interchangeable extractor
// variants exist: the grammar-driven one delegates to the two-stage parser
// collaborator, the heuristic one segments on marker phrases with no grammar
// dependency. An authority-specific override pass can re-derive the header
// and introduction from raw line scanning afterwards.
package extract

import (
	"strings"

	"github.com/jchronis/aknero/pkg/textnorm"
)

// Skeleton is the intermediate, unassembled set of extracted text regions
// and header fields for one judgment.
type Skeleton struct {
	Header       HeaderFields
	Introduction string
	Motivation   string
	Decision     Decision
	Conclusions  string
}

// HeaderFields are the optional header components.
type HeaderFields struct {
	DocNumber     string
	DocProponent  string
	SubDepartment string
	HeaderDetails string
}

// Decision is the operative part of the judgment.
type Decision struct {
	Outcome string
	Details string
}

// BodyText concatenates the skeleton's regions in document order. It is the
// best-effort text dumped to a side artifact when serialization fails.
func (s *Skeleton) BodyText() string {
	var parts []string
	for _, region := range []string{
		s.Introduction, s.Motivation, s.Decision.Details, s.Conclusions,
	} {
		if region != "" {
			parts = append(parts, region)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Region identifies one settable part of the skeleton.
type Region string

const (
	RegionDocNumber     Region = "docNumber"
	RegionDocProponent  Region = "docProponent"
	RegionSubDepartment Region = "subDepartment"
	RegionHeaderDetails Region = "headerDetails"
	RegionIntroduction  Region = "introduction"
	RegionMotivation    Region = "motivation"
	RegionOutcome       Region = "outcome"
	RegionDecision      Region = "decisionDetails"
	RegionConclusions   Region = "conclusions"
)

// Update is one (region, value) pair. Extraction walks produce an ordered
// sequence of updates that is applied once, so a skeleton's content never
// depends on hidden mutation order.
type Update struct {
	Region Region
	Value  string
}

// Apply folds an update sequence into a skeleton. A later update for the
// same region replaces the earlier value.
func Apply(updates []Update) Skeleton {
	var s Skeleton
	for _, u := range updates {
		switch u.Region {
		case RegionDocNumber:
			s.Header.DocNumber = u.Value
		case RegionDocProponent:
			s.Header.DocProponent = u.Value
		case RegionSubDepartment:
			s.Header.SubDepartment = u.Value
		case RegionHeaderDetails:
			s.Header.HeaderDetails = u.Value
		case RegionIntroduction:
			s.Introduction = u.Value
		case RegionMotivation:
			s.Motivation = u.Value
		case RegionOutcome:
			s.Decision.Outcome = u.Value
		case RegionDecision:
			s.Decision.Details = u.Value
		case RegionConclusions:
			s.Conclusions = u.Value
		}
	}
	return s
}

// Diagnostic is one recoverable extraction irregularity. Diagnostics ride on
// the result; they never abort extraction.
type Diagnostic struct {
	Stage   string
	Message string
}

// Result carries a possibly partial skeleton together with whatever
// irregularities were noticed while producing it.
type Result struct {
	Skeleton    Skeleton
	Diagnostics []Diagnostic
}

// Extractor turns raw text into a document skeleton.
type Extractor interface {
	Extract(doc *textnorm.RawDocument) (Result, error)
}
