// Package driver owns the re-parse/re-invoke loop around the case-when-splat
// rule. The rule itself is a pure function emitting at most one edit per
// statement per pass; the driver applies those edits and re-parses until no
// offense remains or the pass cap is hit.
package driver

import (
	"bytes"
	"context"
	"sort"

	"github.com/chris-regnier/whensort/internal/rubyast"
	"github.com/chris-regnier/whensort/internal/splatorder"
	"github.com/chris-regnier/whensort/internal/textedit"
)

// Diagnostic is one reported offense, positioned in the original source.
type Diagnostic struct {
	RuleID    string `json:"ruleId"`
	Message   string `json:"message"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	StartByte int    `json:"startByte"`
	EndByte   int    `json:"endByte"`
}

// Result is the outcome of running the rule over one source buffer.
type Result struct {
	// Diagnostics are the offenses found on the first pass, in source order.
	Diagnostics []Diagnostic

	// Fixed is the source after all applied passes. Equal to the input
	// when there was nothing to fix.
	Fixed []byte

	// Passes counts how many edit rounds were applied.
	Passes int

	// Converged is true when the final source has zero offenses.
	Converged bool
}

// Changed reports whether fixing rewrote the source.
func (r *Result) Changed() bool { return r.Passes > 0 }

// Options bound the fix loop.
type Options struct {
	// MaxPasses caps fix iterations. Zero derives the cap from the number
	// of when clauses in the file: n*(n-1)/2 + n + 1, covering the
	// adjacent-transposition worst case plus one head rewrite per clause.
	MaxPasses int
}

// Check parses src and reports diagnostics without rewriting anything.
func Check(ctx context.Context, src []byte) ([]Diagnostic, error) {
	file, err := rubyast.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	return diagnose(file, src), nil
}

// Fix iterates detect/correct rounds to a fixed point. Diagnostics describe
// the first pass over the original source; Fixed holds the converged text.
func Fix(ctx context.Context, src []byte, opts Options) (*Result, error) {
	res := &Result{Fixed: src}
	maxPasses := opts.MaxPasses

	current := src
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		file, err := rubyast.Parse(ctx, current)
		if err != nil {
			return nil, err
		}

		if res.Passes == 0 {
			res.Diagnostics = diagnose(file, current)
			if maxPasses <= 0 {
				maxPasses = defaultPassCap(file)
			}
		}

		tx := textedit.NewTransaction()
		for _, stmt := range file.CaseStatements() {
			_, edit := splatorder.Run(stmt, current)
			if edit == nil {
				continue
			}
			// A nested statement's edit can fall inside an enclosing
			// statement's transposition. Skip it; the next pass sees it
			// again at its new position.
			if err := tx.Add(*edit); err != nil {
				continue
			}
		}

		if tx.Len() == 0 {
			res.Fixed = current
			res.Converged = true
			return res, nil
		}

		current = tx.Apply(current)
		res.Passes++

		if res.Passes >= maxPasses {
			res.Fixed = current
			// The last pass may have applied the final edit. Re-check so a
			// run that lands exactly on the cap still reports convergence.
			file, err := rubyast.Parse(ctx, current)
			if err != nil {
				return nil, err
			}
			res.Converged = len(diagnose(file, current)) == 0
			return res, nil
		}
	}
}

// defaultPassCap returns the adjacent-transposition worst case for the
// file's total when-clause count, plus one head rewrite per clause and a
// settling pass.
func defaultPassCap(file *rubyast.File) int {
	n := 0
	for _, stmt := range file.CaseStatements() {
		n += len(stmt.Whens)
	}
	return n*(n-1)/2 + n + 1
}

func diagnose(file *rubyast.File, src []byte) []Diagnostic {
	var out []Diagnostic
	for _, stmt := range file.CaseStatements() {
		c := splatorder.Classify(stmt)
		for _, off := range c.Offenses() {
			out = append(out, Diagnostic{
				RuleID:    splatorder.RuleID,
				Message:   off.Message,
				StartLine: off.Line,
				EndLine:   lineAt(src, off.Span.End),
				StartByte: off.Span.Start,
				EndByte:   off.Span.End,
			})
		}
	}
	// Nested statements are visited after their parent; restore strict
	// source order across statements.
	sort.Slice(out, func(i, j int) bool { return out[i].StartByte < out[j].StartByte })
	return out
}

// lineAt returns the 1-based line containing byte offset off.
func lineAt(src []byte, off int) int {
	if off > len(src) {
		off = len(src)
	}
	return bytes.Count(src[:off], []byte{'\n'}) + 1
}
