package patch

import "testing"

func ctx(s string) Line      { return Line{Origin: Context, Data: []byte(s)} }
func add(s string) Line      { return Line{Origin: Addition, Data: []byte(s)} }
func del(s string) Line      { return Line{Origin: Deletion, Data: []byte(s)} }

func applyAndCheck(t *testing.T, src string, h Hunk, want string) {
	t.Helper()

	img := NewImage([]byte(src))
	if err := ApplyHunk(img, &h); err != nil {
		t.Fatalf("unexpected error applying hunk: %v", err)
	}
	if got := string(img.ToBytes()); got != want {
		t.Errorf("expected %q, actual %q", want, got)
	}
}

// Scenario A: simple replacement.
func TestApplyHunkReplacement(t *testing.T) {
	h := Hunk{
		NewStart: 1, OldCount: 1, NewCount: 1,
		Lines: []Line{ctx("a\n"), del("b\n"), add("B\n"), ctx("c\n")},
	}
	applyAndCheck(t, "a\nb\nc\n", h, "a\nB\nc\n")
}

// Scenario B: insertion at top.
func TestApplyHunkInsertAtTop(t *testing.T) {
	h := Hunk{
		NewStart: 0, OldCount: 0, NewCount: 1,
		Lines: []Line{add("hello\n")},
	}
	applyAndCheck(t, "x\n", h, "hello\nx\n")
}

// Scenario C: deletion of the last line, no trailing newline.
func TestApplyHunkDeleteLastNoEOL(t *testing.T) {
	h := Hunk{
		NewStart: 1, OldCount: 1, NewCount: 0,
		Lines: []Line{ctx("one\n"), del("two")},
	}
	applyAndCheck(t, "one\ntwo", h, "one\n")
}

// Scenario D: mismatch is rejected and the source is left untouched.
func TestApplyHunkMismatchRejects(t *testing.T) {
	h := Hunk{
		NewStart: 2, OldCount: 1, NewCount: 1,
		Lines: []Line{ctx("a\n"), del("X\n"), add("Y\n"), ctx("c\n")},
	}

	src := "a\nb\nc\n"
	img := NewImage([]byte(src))
	err := ApplyHunk(img, &h)

	fail, ok := err.(*ApplyFail)
	if !ok {
		t.Fatalf("expected *ApplyFail, got %T (%v)", err, err)
	}
	if fail.Line != 2 {
		t.Errorf("expected failure at line 2, got %d", fail.Line)
	}
	if got := string(img.ToBytes()); got != src {
		t.Errorf("image mutated after failed apply: %q", got)
	}
}

// Shifting the source by one extra line before the anchor must turn a
// successful apply into a failed one, since there is no fuzzy search.
func TestApplyHunkNoFuzzySearch(t *testing.T) {
	h := Hunk{
		NewStart: 1, OldCount: 1, NewCount: 1,
		Lines: []Line{ctx("a\n"), del("b\n"), add("B\n"), ctx("c\n")},
	}

	img := NewImage([]byte("shifted\na\nb\nc\n"))
	err := ApplyHunk(img, &h)
	if err == nil {
		t.Fatalf("expected shifted source to fail, but it applied")
	}
	if _, ok := err.(*ApplyFail); !ok {
		t.Fatalf("expected *ApplyFail, got %T", err)
	}
}

// Property 6: image line count changes by exactly new_count - old_count.
func TestApplyHunkLengthArithmetic(t *testing.T) {
	tests := []Hunk{
		{NewStart: 1, OldCount: 1, NewCount: 1, Lines: []Line{ctx("a\n"), del("b\n"), add("B\n"), ctx("c\n")}},
		{NewStart: 0, OldCount: 0, NewCount: 1, Lines: []Line{add("hello\n")}},
		{NewStart: 1, OldCount: 1, NewCount: 0, Lines: []Line{ctx("one\n"), del("two")}},
	}
	srcs := []string{"a\nb\nc\n", "x\n", "one\ntwo"}

	for i, h := range tests {
		img := NewImage([]byte(srcs[i]))
		before := img.Len()
		if err := ApplyHunk(img, &h); err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if got, want := img.Len()-before, h.NewCount-h.OldCount; got != want {
			t.Errorf("case %d: expected length delta %d, actual %d", i, want, got)
		}
	}
}

func TestApplyHunkNoOpEmptyHunkSet(t *testing.T) {
	// Property 2: a patch (here, zero hunks applied via applyHunks) leaves
	// bytes untouched.
	src := []byte("unchanged\n")
	out, err := applyHunks(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != string(src) {
		t.Errorf("expected %q, actual %q", src, out)
	}
}
