package dialect

import "testing"

func TestApplySearchReplaceSingleBlock(t *testing.T) {
	original := "func a() {\n\told()\n}\n"
	diff := "<<<<<<< SEARCH\n\told()\n=======\n\tnewFn()\n>>>>>>> REPLACE\n"
	got, err := ApplySearchReplace(original, diff)
	if err != nil {
		t.Fatal(err)
	}
	want := "func a() {\n\tnewFn()\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplySearchReplaceMultipleBlocksSequential(t *testing.T) {
	original := "one\ntwo\nthree\n"
	diff := "<<<<<<< SEARCH\none\n=======\n1\n>>>>>>> REPLACE\n" +
		"<<<<<<< SEARCH\nthree\n=======\n3\n>>>>>>> REPLACE\n"
	got, err := ApplySearchReplace(original, diff)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\ntwo\n3\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplySearchReplaceWhitespaceTrimmedFallback(t *testing.T) {
	original := "func a() {\n    old()\n}\n"
	diff := "<<<<<<< SEARCH\nold()\n=======\nnewFn()\n>>>>>>> REPLACE\n"
	got, err := ApplySearchReplace(original, diff)
	if err != nil {
		t.Fatal(err)
	}
	want := "func a() {\nnewFn()\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplySearchReplaceAmbiguousFails(t *testing.T) {
	original := "dup()\ndup()\n"
	diff := "<<<<<<< SEARCH\ndup()\n=======\nnew()\n>>>>>>> REPLACE\n"
	if _, err := ApplySearchReplace(original, diff); err == nil {
		t.Fatal("expected an error when the search text matches more than once")
	}
}

func TestApplySearchReplaceNotFoundFails(t *testing.T) {
	original := "hello\n"
	diff := "<<<<<<< SEARCH\nnope\n=======\nnew\n>>>>>>> REPLACE\n"
	if _, err := ApplySearchReplace(original, diff); err == nil {
		t.Fatal("expected an error when the search text isn't found")
	}
}

func TestApplySearchReplaceUnterminatedBlockFails(t *testing.T) {
	diff := "<<<<<<< SEARCH\nfoo\n=======\nbar\n"
	if _, err := ApplySearchReplace("foo\n", diff); err == nil {
		t.Fatal("expected an error for an unterminated block")
	}
}

func TestApplySearchReplaceNoBlocksFails(t *testing.T) {
	if _, err := ApplySearchReplace("foo\n", "just plain text"); err == nil {
		t.Fatal("expected an error when no SEARCH/REPLACE blocks are present")
	}
}
