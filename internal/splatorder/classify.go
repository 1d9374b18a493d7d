// Package splatorder implements the case-when-splat rule: when clauses
// whose conditions splat a dynamic expression must come after every clause
// without such a splat, and within a clause non-splat conditions must come
// before splat conditions.
//
// The package is pure: it reads the rubyast value model and the source
// bytes, and produces offenses and at most one text edit per invocation.
// Convergence across invocations is the caller's job (see internal/driver).
package splatorder

import "github.com/chris-regnier/whensort/internal/rubyast"

// CondKind classifies a single when condition.
type CondKind int

const (
	// CondPlain is any non-splat condition.
	CondPlain CondKind = iota

	// CondSplatLiteral is a splat whose target is an inline array literal,
	// fixed at the call site (e.g. *[1, 2] or *%w[a b]).
	CondSplatLiteral

	// CondSplatDynamic is a splat over anything else: a variable, constant,
	// method call, or nested splat.
	CondSplatDynamic
)

// ClauseKind classifies a whole when clause.
type ClauseKind int

const (
	// ClauseOrdinary clauses match plain values or literal-array splats.
	ClauseOrdinary ClauseKind = iota

	// ClauseDeferred clauses contain at least one dynamic splat and must
	// sort after every ordinary clause.
	ClauseDeferred
)

// literalCollections holds the tree-sitter node types that build a
// collection inline.
var literalCollections = map[string]bool{
	"array":        true,
	"string_array": true, // %w[...]
	"symbol_array": true, // %i[...]
}

// ClassifyCondition resolves a condition's kind from its syntax.
func ClassifyCondition(c rubyast.Condition) CondKind {
	switch {
	case !c.Splat:
		return CondPlain
	case literalCollections[c.InnerType]:
		return CondSplatLiteral
	default:
		return CondSplatDynamic
	}
}

// Classified is a case statement annotated with condition and clause kinds.
// The else clause, if any, is never classified and never rewritten.
type Classified struct {
	Stmt rubyast.CaseStatement

	// Conds parallels Stmt.Whens[i].Conditions.
	Conds [][]CondKind

	// Kinds parallels Stmt.Whens.
	Kinds []ClauseKind
}

// Classify tags every condition and clause of stmt. Classification is total:
// every condition resolves to exactly one kind.
func Classify(stmt rubyast.CaseStatement) Classified {
	c := Classified{
		Stmt:  stmt,
		Conds: make([][]CondKind, len(stmt.Whens)),
		Kinds: make([]ClauseKind, len(stmt.Whens)),
	}

	for i, w := range stmt.Whens {
		kinds := make([]CondKind, len(w.Conditions))
		clause := ClauseOrdinary
		for j, cond := range w.Conditions {
			kinds[j] = ClassifyCondition(cond)
			if kinds[j] == CondSplatDynamic {
				clause = ClauseDeferred
			}
		}
		c.Conds[i] = kinds
		c.Kinds[i] = clause
	}

	return c
}
