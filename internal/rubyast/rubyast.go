// Package rubyast parses Ruby source with tree-sitter and extracts every
// case statement into a small immutable value model. Only the pieces the
// case-when-splat rule needs are modeled: when clauses, their conditions,
// and byte-offset spans. Bodies are carried as opaque spans and never
// inspected.
package rubyast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Span is a half-open byte range [Start, End) into the parsed source.
type Span struct {
	Start int
	End   int
}

// Text returns the source bytes the span covers.
func (s Span) Text(src []byte) string { return string(src[s.Start:s.End]) }

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Condition is a single match condition of a when clause.
type Condition struct {
	// Splat reports whether the condition is written as *expr.
	Splat bool

	// InnerType is the tree-sitter node type of the splat target
	// (e.g. "array", "identifier", "constant"). Empty for non-splat
	// conditions.
	InnerType string

	Span Span
}

// WhenClause is one branch of a case statement.
type WhenClause struct {
	// Conditions holds the clause's match conditions in source order.
	// Always non-empty; a when without conditions is a parse error and
	// is dropped during extraction.
	Conditions []Condition

	// Head covers the when keyword through the end of the last condition.
	Head Span

	// Full covers the whole clause including its body.
	Full Span

	// Line is the 1-based source line of the when keyword.
	Line int
}

// CaseStatement models one case/when statement. The scrutinee expression
// is not carried; the rule never looks at it.
type CaseStatement struct {
	Whens []WhenClause

	// Else is the span of the trailing else clause, nil when absent.
	Else *Span

	Span Span
	Line int
}

// File is an immutable snapshot of one parsed Ruby source file.
type File struct {
	src   []byte
	cases []CaseStatement
}

// Source returns the bytes the file was parsed from.
func (f *File) Source() []byte { return f.src }

// CaseStatements returns every case statement in the file, outermost
// first in source order. Nested statements are modeled independently.
func (f *File) CaseStatements() []CaseStatement { return f.cases }

// Parse parses Ruby source and extracts its case statements. The
// tree-sitter tree does not outlive this call; callers hold only the
// value model.
func Parse(ctx context.Context, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing ruby source: %w", err)
	}
	defer tree.Close()

	f := &File{src: src}
	collectCases(tree.RootNode(), src, &f.cases)
	return f, nil
}

// collectCases walks the tree depth-first and extracts case statements in
// source order.
func collectCases(node *sitter.Node, src []byte, out *[]CaseStatement) {
	if node == nil {
		return
	}
	if node.Type() == "case" {
		if stmt, ok := extractCase(node, src); ok {
			*out = append(*out, stmt)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectCases(node.Child(i), src, out)
	}
}

func extractCase(node *sitter.Node, src []byte) (CaseStatement, bool) {
	stmt := CaseStatement{
		Span: nodeSpan(node),
		Line: int(node.StartPoint().Row) + 1,
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "when":
			if w, ok := extractWhen(child); ok {
				stmt.Whens = append(stmt.Whens, w)
			}
		case "else":
			sp := nodeSpan(child)
			stmt.Else = &sp
		}
		// Anything else is the scrutinee or a comment; neither matters here.
	}

	return stmt, len(stmt.Whens) > 0
}

func extractWhen(node *sitter.Node) (WhenClause, bool) {
	w := WhenClause{
		Full: nodeSpan(node),
		Line: int(node.StartPoint().Row) + 1,
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "then", "comment":
			// body / interleaved comments, not conditions
		default:
			w.Conditions = append(w.Conditions, extractCondition(child))
		}
	}

	if len(w.Conditions) == 0 {
		return w, false
	}
	last := w.Conditions[len(w.Conditions)-1]
	w.Head = Span{Start: w.Full.Start, End: last.Span.End}
	return w, true
}

// extractCondition models one when condition. The grammar wraps each
// condition in a pattern node; the splat, if any, sits under that wrapper.
func extractCondition(node *sitter.Node) Condition {
	cond := Condition{Span: nodeSpan(node)}

	inner := node
	if inner.Type() == "pattern" {
		if c := inner.NamedChild(0); c != nil {
			inner = c
		}
	}
	if inner.Type() == "splat_argument" {
		cond.Splat = true
		if target := inner.NamedChild(0); target != nil {
			cond.InnerType = target.Type()
		}
	}
	return cond
}

func nodeSpan(node *sitter.Node) Span {
	return Span{Start: int(node.StartByte()), End: int(node.EndByte())}
}
