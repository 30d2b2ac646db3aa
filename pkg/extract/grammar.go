package extract

import (
	"strings"

	"github.com/jchronis/aknero/pkg/grammar"
	"github.com/jchronis/aknero/pkg/textnorm"
)

// Grammar is the grammar-driven extractor variant. Stage one rewrites the
// raw text, replacing recognizable legal citations with canonical inline
// markers; stage two parses the normalized text into a tree that is walked
// node by node, each node populating exactly one skeleton region. Both
// stages record diagnostics instead of failing, so a partial skeleton is
// acceptable output.
type Grammar struct {
	rewriter grammar.Rewriter
	parser   grammar.TreeParser
	header   *Heuristic
}

// NewGrammar wires the extractor to a parser collaborator pair. Passing nil
// for either stage selects the in-repo reference implementation.
func NewGrammar(rewriter grammar.Rewriter, parser grammar.TreeParser) *Grammar {
	if rewriter == nil {
		rewriter = grammar.NewCitationRewriter()
	}
	if parser == nil {
		parser = grammar.NewJudgmentParser()
	}
	return &Grammar{rewriter: rewriter, parser: parser, header: NewHeuristic()}
}

// Extract runs the two stages and folds the walked tree into a skeleton.
func (g *Grammar) Extract(doc *textnorm.RawDocument) (Result, error) {
	normalized, rewriteDiags := g.rewriter.Rewrite(doc.Text)
	if strings.TrimSpace(normalized) == "" {
		// stage one produced nothing usable; hand stage two the raw text
		normalized = doc.Text
	}

	tree, parseDiags := g.parser.Parse(normalized)

	updates := foldTree(tree)

	// header fields come from the same surface scans the heuristic uses;
	// the parse tree only delimits regions
	if court := g.header.Court(doc); court != "" {
		for _, pf := range proponentFormulas {
			if pf.Court == court {
				updates = append(updates, Update{RegionDocProponent, pf.Formula})
			}
		}
	}
	if m := g.header.docNumber.FindStringSubmatch(doc.Text); m != nil {
		updates = append(updates,
			Update{RegionDocNumber, strings.ReplaceAll(m[1], " ", "")})
	}
	if m := g.header.subDepartment.FindString(doc.Text); m != "" {
		updates = append(updates, Update{RegionSubDepartment, strings.TrimSpace(m)})
	}

	result := Result{Skeleton: Apply(updates)}
	for _, d := range rewriteDiags {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{d.Stage, d.Message})
	}
	for _, d := range parseDiags {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{d.Stage, d.Message})
	}
	return result, nil
}

// foldTree turns a document-order walk of the parse tree into the update
// sequence that builds the skeleton. Each node kind maps to one region.
func foldTree(tree *grammar.Node) []Update {
	var updates []Update
	tree.Walk(func(n *grammar.Node) {
		switch n.Kind {
		case grammar.KindHeader:
			updates = append(updates, Update{RegionHeaderDetails, n.Text})
		case grammar.KindIntroduction:
			updates = append(updates, Update{RegionIntroduction, n.Text})
		case grammar.KindMotivation:
			updates = append(updates, Update{RegionMotivation, n.Text})
		case grammar.KindDecision:
			updates = append(updates, Update{RegionDecision, n.Text})
		case grammar.KindOutcome:
			updates = append(updates, Update{RegionOutcome, n.Text})
		case grammar.KindConclusions:
			updates = append(updates, Update{RegionConclusions, n.Text})
		}
	})
	return updates
}
