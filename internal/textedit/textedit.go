// Package textedit applies batches of byte-range replacements to a source
// buffer. A batch is transactional: an edit whose range overlaps an edit
// already accepted is rejected outright rather than merged or reordered.
package textedit

import (
	"errors"
	"fmt"
	"sort"
)

// Edit replaces the half-open byte range [Start, End) with NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// ErrClobbered reports an edit that overlaps one already in the transaction.
var ErrClobbered = errors.New("edit overlaps a previously added edit")

// Transaction accumulates non-overlapping edits for a single source buffer.
// The zero value is ready to use.
type Transaction struct {
	edits []Edit
}

func NewTransaction() *Transaction { return &Transaction{} }

// Add validates e against the edits already accepted and either admits it
// or returns ErrClobbered.
func (t *Transaction) Add(e Edit) error {
	if e.End < e.Start || e.Start < 0 {
		return fmt.Errorf("invalid edit range [%d, %d)", e.Start, e.End)
	}
	for _, prev := range t.edits {
		if overlap(prev, e) {
			return ErrClobbered
		}
	}
	t.edits = append(t.edits, e)
	return nil
}

// Len returns the number of accepted edits.
func (t *Transaction) Len() int { return len(t.edits) }

// Apply commits the accepted edits to src and returns the rewritten buffer.
// src itself is left untouched. Edits are applied back to front so earlier
// offsets stay valid.
func (t *Transaction) Apply(src []byte) []byte {
	edits := make([]Edit, len(t.edits))
	copy(edits, t.edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })

	out := make([]byte, len(src))
	copy(out, src)
	for _, e := range edits {
		rest := append([]byte(e.NewText), out[e.End:]...)
		out = append(out[:e.Start], rest...)
	}
	return out
}

// overlap reports whether two edits touch the same bytes. Two insertions at
// the same offset count as overlapping; ranges that merely abut do not.
func overlap(a, b Edit) bool {
	if a.Start == b.Start && a.End == b.End && a.Start == a.End {
		return true
	}
	return a.Start < b.End && b.Start < a.End
}
