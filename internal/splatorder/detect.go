package splatorder

import "github.com/chris-regnier/whensort/internal/rubyast"

// RuleID identifies the rule in diagnostics and SARIF output.
const RuleID = "case-when-splat"

// Message is the diagnostic text attached to every offense of this rule.
const Message = "Place branch conditions with a spread at the end of the branch list."

// Offense is one rule violation, located at the offending clause's head
// (the when keyword through its last condition).
type Offense struct {
	Span    rubyast.Span
	Line    int
	Message string
}

// Offenses reports offending clauses in source order, at most one offense
// per clause. A clause offends when
//
//   - it is deferred and some later clause is ordinary, or
//   - its own condition order is not normalized.
//
// A statement with zero offenses is compliant: clause kinds read
// ordinary*, deferred*, and every clause's conditions are partitioned
// plain-then-splat.
func (c Classified) Offenses() []Offense {
	var out []Offense
	for i, w := range c.Stmt.Whens {
		if !c.offending(i) {
			continue
		}
		out = append(out, Offense{
			Span:    w.Head,
			Line:    w.Line,
			Message: Message,
		})
	}
	return out
}

func (c Classified) offending(i int) bool {
	if c.Kinds[i] == ClauseDeferred {
		for j := i + 1; j < len(c.Kinds); j++ {
			if c.Kinds[j] == ClauseOrdinary {
				return true
			}
		}
	}
	_, changed := NormalizeConditions(c.Stmt.Whens[i].Conditions)
	return changed
}
