package splatorder

import (
	"strings"

	"github.com/chris-regnier/whensort/internal/rubyast"
	"github.com/chris-regnier/whensort/internal/textedit"
)

// Correct computes at most one text edit moving the statement toward the
// compliant form, or nil when nothing needs fixing.
//
// The downstream transaction refuses overlapping edits, so no attempt is
// made to emit a full permutation at once. Each call fixes exactly one
// thing, in priority order:
//
//  1. The first adjacent deferred/ordinary clause pair is transposed. The
//     two full clause texts swap verbatim (bodies included), each side with
//     its own conditions normalized, and the text between them is kept.
//     Any deferred-before-ordinary inversion implies at least one such
//     adjacent pair, so progress is guaranteed while offenses remain.
//  2. Otherwise, the first clause whose condition order is not normalized
//     has its head rewritten in place.
//
// Repeated invocation over re-parsed source strictly reduces the inversion
// count and converges; the else clause is never part of any edit.
func (c Classified) Correct(src []byte) *textedit.Edit {
	whens := c.Stmt.Whens

	for i := 0; i+1 < len(whens); i++ {
		if c.Kinds[i] != ClauseDeferred || c.Kinds[i+1] != ClauseOrdinary {
			continue
		}
		between := string(src[whens[i].Full.End:whens[i+1].Full.Start])
		return &textedit.Edit{
			Start:   whens[i].Full.Start,
			End:     whens[i+1].Full.End,
			NewText: renderClause(whens[i+1], src) + between + renderClause(whens[i], src),
		}
	}

	for _, w := range whens {
		norm, changed := NormalizeConditions(w.Conditions)
		if !changed {
			continue
		}
		return &textedit.Edit{
			Start:   w.Head.Start,
			End:     w.Head.End,
			NewText: renderHead(norm, src),
		}
	}

	return nil
}

// Run classifies stmt and returns its offenses together with at most one
// corrective edit. Both are nil for a compliant statement.
func Run(stmt rubyast.CaseStatement, src []byte) ([]Offense, *textedit.Edit) {
	c := Classify(stmt)
	offenses := c.Offenses()
	if len(offenses) == 0 {
		return nil, nil
	}
	return offenses, c.Correct(src)
}

// renderClause reproduces a clause's source text, with its own conditions
// normalized when needed. The body is carried verbatim.
func renderClause(w rubyast.WhenClause, src []byte) string {
	norm, changed := NormalizeConditions(w.Conditions)
	if !changed {
		return w.Full.Text(src)
	}
	return renderHead(norm, src) + string(src[w.Head.End:w.Full.End])
}

func renderHead(conds []rubyast.Condition, src []byte) string {
	texts := make([]string, len(conds))
	for i, c := range conds {
		texts[i] = c.Span.Text(src)
	}
	return "when " + strings.Join(texts, ", ")
}
