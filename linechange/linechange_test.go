package linechange

import (
	"testing"

	"patchcore.dev/schema"
)

func TestChangesDeleteCountsRemovedLines(t *testing.T) {
	op := schema.Delete("a.ts")
	originals := schema.Snapshot{"a.ts": schema.Present("a\nb\nc")}
	news := schema.Snapshot{"a.ts": schema.AbsentFile()}
	d := Changes(op, originals, news)
	if d.Removed != 3 || d.Added != 0 || d.Difference != 3 {
		t.Errorf("got %+v, want Removed=3", d)
	}
}

func TestChangesNewFileCountsAllAdded(t *testing.T) {
	op := schema.Write("a.ts", "x\ny\n", schema.DialectReplace)
	originals := schema.Snapshot{}
	news := schema.Snapshot{"a.ts": schema.Present("x\ny\n")}
	d := Changes(op, originals, news)
	// "x\ny\n" splits into three lines: the trailing newline counts as a
	// final empty line.
	if d.Added != 3 || d.Removed != 0 || d.Difference != 3 {
		t.Errorf("got %+v, want Added=3", d)
	}
}

func TestChangesIdenticalContentIsZero(t *testing.T) {
	op := schema.Write("a.ts", "same", schema.DialectReplace)
	originals := schema.Snapshot{"a.ts": schema.Present("same")}
	news := schema.Snapshot{"a.ts": schema.Present("same")}
	d := Changes(op, originals, news)
	if d != (LineDelta{}) {
		t.Errorf("got %+v, want zero delta", d)
	}
}

func TestChangesRenameIsZero(t *testing.T) {
	op := schema.Rename("a.ts", "b.ts")
	d := Changes(op, schema.Snapshot{}, schema.Snapshot{})
	if d != (LineDelta{}) {
		t.Errorf("got %+v, want zero delta", d)
	}
}

func TestChangesModifiedContentUsesLCS(t *testing.T) {
	op := schema.Write("a.ts", "new", schema.DialectStandardDiff)
	originals := schema.Snapshot{"a.ts": schema.Present("a\nb\nc")}
	news := schema.Snapshot{"a.ts": schema.Present("a\nx\nc")}
	d := Changes(op, originals, news)
	if d.Added != 1 || d.Removed != 1 || d.Difference != 2 {
		t.Errorf("got %+v, want Added=1 Removed=1 Difference=2", d)
	}
}

func TestChangesEmptyToEmptyIsZero(t *testing.T) {
	op := schema.Write("a.ts", "", schema.DialectReplace)
	originals := schema.Snapshot{"a.ts": schema.Present("")}
	news := schema.Snapshot{"a.ts": schema.Present("")}
	d := Changes(op, originals, news)
	if d != (LineDelta{}) {
		t.Errorf("got %+v, want zero delta", d)
	}
}

func TestSummarizeAggregatesAcrossOperations(t *testing.T) {
	ops := []schema.FileOperation{
		schema.Delete("a.ts"),
		schema.Write("b.ts", "x\ny\n", schema.DialectReplace),
	}
	originals := schema.Snapshot{"a.ts": schema.Present("a\nb")}
	news := schema.Snapshot{"a.ts": schema.AbsentFile(), "b.ts": schema.Present("x\ny\n")}
	total := Summarize(ops, originals, news)
	if total.Removed != 2 || total.Added != 3 || total.Difference != 5 {
		t.Errorf("got %+v", total)
	}
}

func TestLineCountEmptyStringIsZero(t *testing.T) {
	if got := lineCount(""); got != 0 {
		t.Errorf("lineCount(\"\") = %d, want 0", got)
	}
}

func TestLcsLength(t *testing.T) {
	cases := []struct {
		a, b []string
		want int
	}{
		{[]string{"a", "b", "c"}, []string{"a", "b", "c"}, 3},
		{[]string{"a", "b", "c"}, []string{"x", "y", "z"}, 0},
		{[]string{"a", "b", "c"}, []string{"a", "x", "c"}, 2},
		{nil, []string{"a"}, 0},
	}
	for _, tc := range cases {
		if got := lcsLength(tc.a, tc.b); got != tc.want {
			t.Errorf("lcsLength(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
