package respparse

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"patchcore.dev/schema"
)

// FormatResponse serializes a ParsedResponse back into the textual form
// Parse accepts: reasoning lines, one fenced block per operation, and a
// trailing fenced YAML control block. It exists for the round-trip
// property ("re-parsing a serialised parsed response yields the same
// operations and control in order") and for callers that want to persist
// a parsed response as text, e.g. a session log. It does not need to
// reproduce byte-for-byte what produced the ParsedResponse in the first
// place — only to parse back to equivalent operations and control. A Write
// whose content does not end in a newline comes back with one appended,
// because the closing fence has to start a line of its own.
func FormatResponse(pr *schema.ParsedResponse) string {
	var b strings.Builder
	for _, line := range pr.Reasoning {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, op := range pr.Operations {
		b.WriteString(formatOperation(op))
		b.WriteString("\n")
	}
	b.WriteString(formatControl(pr.Control))
	return b.String()
}

func formatOperation(op schema.FileOperation) string {
	switch op.Kind {
	case schema.OpRename:
		payload, _ := json.Marshal(struct {
			From string `json:"from"`
			To   string `json:"to"`
		}{op.From, op.To})
		return fmt.Sprintf("```json\nrename-file\n%s\n```", payload)

	case schema.OpDelete:
		return fmt.Sprintf("```\n%q\n%s\n```", op.Path, deleteSentinel)

	case schema.OpWrite:
		content := op.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if op.Dialect != schema.DialectReplace {
			// Non-replace bodies are parsed verbatim, so the header goes on
			// the opening fence line instead of the body's first line.
			return fmt.Sprintf("```%q %s\n%s```", op.Path, op.Dialect, content)
		}
		return fmt.Sprintf("```\n%q\n%s```", op.Path, content)
	}
	return ""
}

func formatControl(c schema.Control) string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("```yaml\n%s```\n", out)
}
