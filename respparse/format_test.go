package respparse

import (
	"testing"

	"patchcore.dev/schema"
)

func TestFormatResponseRoundTrip(t *testing.T) {
	raw := "Some reasoning.\n\n```ts\n// src/a.ts\nconst x = 1;\n```\n\n" +
		"```json\nrename-file\n{\"from\":\"a.ts\",\"to\":\"b.ts\"}\n```\n\n" + validControlYAML
	parsed, ok := Parse(raw)
	if !ok {
		t.Fatal("Parse failed, want success")
	}

	reparsed, ok := Parse(FormatResponse(parsed))
	if !ok {
		t.Fatal("re-parsing the formatted response failed")
	}

	if reparsed.Control.ProjectID != parsed.Control.ProjectID || reparsed.Control.UUID != parsed.Control.UUID {
		t.Errorf("control mismatch: got %+v, want %+v", reparsed.Control, parsed.Control)
	}
	if len(reparsed.Operations) != len(parsed.Operations) {
		t.Fatalf("got %d operations, want %d", len(reparsed.Operations), len(parsed.Operations))
	}
	for i := range parsed.Operations {
		want, got := parsed.Operations[i], reparsed.Operations[i]
		if got != want {
			t.Errorf("operation %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestFormatResponseDelete(t *testing.T) {
	pr := &schema.ParsedResponse{
		Control:    schema.Control{ProjectID: "p", UUID: uuid1},
		Operations: []schema.FileOperation{schema.Delete("src/old.ts")},
	}
	reparsed, ok := Parse(FormatResponse(pr))
	if !ok {
		t.Fatal("Parse failed, want success")
	}
	if len(reparsed.Operations) != 1 || reparsed.Operations[0] != schema.Delete("src/old.ts") {
		t.Errorf("got %+v", reparsed.Operations)
	}
}
