// Package grammar defines the two-stage parser collaborator used by the
// grammar-driven structural extractor: stage one rewrites raw judgment text,
// replacing recognizable legal citations with canonical inline markers;
// stage two parses the normalized text into a walkable tree of structural
// units. Both stages follow a silent-diagnostics discipline: syntax
// irregularities are collected on the result, never raised, and partial or
// empty trees are acceptable output.
package grammar

// Diagnostic is one recoverable irregularity noted during a stage.
type Diagnostic struct {
	Stage   string
	Offset  int
	Message string
}

// Rewriter is stage one. It must not fail on malformed citations; whatever
// cannot be rewritten is passed through untouched.
type Rewriter interface {
	Rewrite(text string) (string, []Diagnostic)
}

// TreeParser is stage two. A text the parser cannot make sense of yields a
// tree with fewer (or no) structural children plus diagnostics.
type TreeParser interface {
	Parse(text string) (*Node, []Diagnostic)
}

// NodeKind classifies a structural unit of the parsed judgment.
type NodeKind string

const (
	KindJudgment     NodeKind = "judgment"
	KindHeader       NodeKind = "header"
	KindIntroduction NodeKind = "introduction"
	KindMotivation   NodeKind = "motivation"
	KindDecision     NodeKind = "decision"
	KindOutcome      NodeKind = "outcome"
	KindConclusions  NodeKind = "conclusions"
	KindParagraph    NodeKind = "paragraph"
)

// Node is one unit of the stage-two parse tree. Children are in document
// order; Text is set on leaves (paragraphs, outcome) and empty on grouping
// nodes.
type Node struct {
	Kind     NodeKind
	Text     string
	Children []*Node
}

// Walk visits the node and its descendants in document order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}
