package driver

import (
	"context"
	"testing"

	"github.com/chris-regnier/whensort/internal/splatorder"
)

func fix(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Fix(context.Background(), []byte(src), Options{})
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}
	return res
}

func TestCheckReportsOffenses(t *testing.T) {
	diags, err := Check(context.Background(), []byte(`case x
when *cond
  bar
when 4
  foobar
end
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.RuleID != splatorder.RuleID {
		t.Errorf("rule ID = %q", d.RuleID)
	}
	if d.Message != splatorder.Message {
		t.Errorf("message = %q", d.Message)
	}
	if d.StartLine != 2 || d.EndLine != 2 {
		t.Errorf("lines = %d-%d, want 2-2", d.StartLine, d.EndLine)
	}
}

func TestCheckCompliantSource(t *testing.T) {
	diags, err := Check(context.Background(), []byte(`case x
when 4
  foobar
when *cond
  bar
end
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected 0 diagnostics, got %d", len(diags))
	}
}

func TestFixSingleRound(t *testing.T) {
	res := fix(t, `case x
when *cond
  bar
when 4
  foobar
end
`)
	want := `case x
when 4
  foobar
when *cond
  bar
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
	if res.Passes != 1 {
		t.Errorf("passes = %d, want 1", res.Passes)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("diagnostics = %d, want 1", len(res.Diagnostics))
	}
}

func TestFixRequiresTwoRounds(t *testing.T) {
	res := fix(t, `case x
when *cond1
  bar
when *cond2
  foobar
when 5
  baz
end
`)
	want := `case x
when 5
  baz
when *cond1
  bar
when *cond2
  foobar
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
	if res.Passes != 2 {
		t.Errorf("passes = %d, want 2", res.Passes)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
}

func TestFixIdempotentOnCompliantSource(t *testing.T) {
	src := `case x
when 5
  baz
when *cond
  bar
end
`
	res := fix(t, src)
	if res.Changed() {
		t.Error("compliant source should not change")
	}
	if string(res.Fixed) != src {
		t.Errorf("fixed = %q, want input unchanged", res.Fixed)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
}

func TestFixReachesFixedPoint(t *testing.T) {
	// Fixing an already fixed output must be a no-op.
	res := fix(t, `case x
when *a
  r1
when *b
  r2
when 1
  r3
when 2
  r4
end
`)
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	again := fix(t, string(res.Fixed))
	if again.Changed() {
		t.Errorf("second fix changed output after %d passes", again.Passes)
	}
}

func TestFixPreservesGroupOrder(t *testing.T) {
	res := fix(t, `case x
when *a
  r1
when *b
  r2
when 1
  r3
when 2
  r4
end
`)
	want := `case x
when 1
  r3
when 2
  r4
when *a
  r1
when *b
  r2
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
}

func TestFixPreservesElseClause(t *testing.T) {
	res := fix(t, `case x
when *cond
  bar
when 4
  foobar
else
  qux
end
`)
	want := `case x
when 4
  foobar
when *cond
  bar
else
  qux
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
}

func TestFixNestedCaseRetriesNextPass(t *testing.T) {
	// The nested statement's edit clobbers the enclosing transposition in
	// round one and is picked up again after the re-parse.
	res := fix(t, `case x
when *outer
  case y
  when *inner
    a
  when 1
    b
  end
when 2
  c
end
`)
	want := `case x
when 2
  c
when *outer
  case y
  when 1
    b
  when *inner
    a
  end
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
	if res.Passes != 2 {
		t.Errorf("passes = %d, want 2", res.Passes)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
}

func TestFixIndependentStatementsInOnePass(t *testing.T) {
	res := fix(t, `case x
when *a
  r1
when 1
  r2
end

case y
when *b
  r3
when 2
  r4
end
`)
	want := `case x
when 1
  r2
when *a
  r1
end

case y
when 2
  r4
when *b
  r3
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
	if res.Passes != 1 {
		t.Errorf("passes = %d, want 1", res.Passes)
	}
}

func TestFixNormalizesMultipleClauseHeads(t *testing.T) {
	// No transposition needed, but each clause costs one head-rewrite pass.
	res := fix(t, `case x
when *[1], 2
  a
when *[3], 4
  b
end
`)
	want := `case x
when 2, *[1]
  a
when 4, *[3]
  b
end
`
	if string(res.Fixed) != want {
		t.Errorf("fixed = %q, want %q", res.Fixed, want)
	}
	if res.Passes != 2 {
		t.Errorf("passes = %d, want 2", res.Passes)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
}

func TestFixConvergenceDetectedAtPassCap(t *testing.T) {
	// The final edit lands exactly on the cap; the result must still be
	// recognized as converged.
	res, err := Fix(context.Background(), []byte(`case x
when *[1], 2
  a
when *[3], 4
  b
end
`), Options{MaxPasses: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Passes != 2 {
		t.Errorf("passes = %d, want 2", res.Passes)
	}
	if !res.Converged {
		t.Error("fully fixed output at the cap must report convergence")
	}

	diags, err := Check(context.Background(), res.Fixed)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("fixed output still has %d diagnostic(s)", len(diags))
	}
}

func TestFixHonorsPassCap(t *testing.T) {
	res, err := Fix(context.Background(), []byte(`case x
when *cond1
  bar
when *cond2
  foobar
when 5
  baz
end
`), Options{MaxPasses: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Passes != 1 {
		t.Errorf("passes = %d, want 1", res.Passes)
	}
	if res.Converged {
		t.Error("capped run should not report convergence")
	}
}

func TestFixDiagnosticsDescribeFirstPass(t *testing.T) {
	res := fix(t, `case x
when *cond1
  bar
when *cond2
  foobar
when 5
  baz
end
`)
	// Both deferred clauses offend in the original source.
	if len(res.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %d, want 2", len(res.Diagnostics))
	}
	if res.Diagnostics[0].StartLine != 2 || res.Diagnostics[1].StartLine != 4 {
		t.Errorf("diagnostic lines = %d, %d; want 2, 4",
			res.Diagnostics[0].StartLine, res.Diagnostics[1].StartLine)
	}
}

func TestFixCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fix(ctx, []byte("case x\nwhen 1\n  a\nend\n"), Options{}); err == nil {
		t.Fatal("expected context error")
	}
}
