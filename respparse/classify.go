package respparse

import (
	"encoding/json"
	"strings"

	"patchcore.dev/schema"
)

const deleteSentinel = "//TODO: delete this file"

// classifyBlock turns one (header, body) fenced region into a single typed
// operation, or reports that the block should be silently dropped.
//
// Before applying the grammar in SPEC_FULL.md §4.4, classifyBlock resolves
// one ambiguity left open by the distilled spec: many real responses put a
// fence's language tag alone on the opening line (```ts), or no info string
// at all (```), and the actual path/dialect header on the *first line of
// the body* as a `// path` comment or a quoted path (see SPEC_FULL.md §11,
// the worked "replace write" example, and FormatResponse's own output
// shape). When the header, as captured by the scanner, is empty or a
// single bare token with no path-like punctuation, and the body's first
// line is itself clearly path-shaped, classifyBlock treats the captured
// header as a language tag and promotes that body line to be the real
// header instead, leaving its trailing newline in the body so content
// normalisation (step 6) strips it the same way it would a literal
// leading blank line. A body whose first line doesn't look like a path
// (an illustrative code snippet, say) is left alone, so an ordinary
// example fence doesn't get misread as a file operation.
func classifyBlock(rawHeader, rawBody string) (schema.FileOperation, bool) {
	header := strings.TrimSpace(rawHeader)
	body := rawBody

	if header != "rename-file" && (header == "" || looksLikeBareTag(header)) {
		if h2, b2, ok := promoteBodyFirstLineToHeader(body); ok {
			header, body = h2, b2
		}
	}

	// Step 1: header normalisation.
	if idx := strings.Index(header, "//"); idx >= 0 {
		header = strings.TrimSpace(header[idx+2:])
	}
	if header == "" {
		return schema.FileOperation{}, false
	}

	// Step 2: rename short-circuit.
	if header == "rename-file" {
		return classifyRename(body)
	}

	// Step 3: path/dialect extraction.
	path, dialect, explicit, ok := extractPathDialect(header)
	if !ok || path == "" {
		return schema.FileOperation{}, false
	}

	// Step 4: delete detection.
	if strings.TrimSpace(body) == deleteSentinel {
		return schema.Delete(path), true
	}

	// Step 5: dialect inference, when the header didn't name one explicitly.
	if !explicit {
		dialect = inferDialect(body)
	}

	// Step 6: content normalisation.
	content := body
	if dialect == schema.DialectReplace {
		content = stripOneLeadingNewline(content)
	}

	return schema.Write(path, content, dialect), true
}

func classifyRename(body string) (schema.FileOperation, bool) {
	var payload struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return schema.FileOperation{}, false
	}
	if payload.From == "" || payload.To == "" {
		return schema.FileOperation{}, false
	}
	return schema.Rename(payload.From, payload.To), true
}

// looksLikeBareTag reports whether s reads as a language tag (a single
// whitespace-free token with no path-like punctuation) rather than a path.
func looksLikeBareTag(s string) bool {
	return s != "" && !strings.ContainsAny(s, "./\"\t \r\n")
}

// promoteBodyFirstLineToHeader extracts body's first line as a candidate
// header, leaving its line terminator in place in the returned body. It
// only promotes when that line is clearly path-shaped, not just any
// non-empty text — otherwise an ordinary illustrative code fence (```js
// with a snippet, no file-header intent) would have its first line of
// code mistaken for a path.
func promoteBodyFirstLineToHeader(body string) (header, newBody string, ok bool) {
	firstLine, rest, found := strings.Cut(body, "\n")
	if !found {
		return "", body, false
	}
	trimmed := strings.TrimSpace(strings.TrimRight(firstLine, "\r"))
	if trimmed == "" || !looksLikePathLine(trimmed) {
		return "", body, false
	}
	return trimmed, "\n" + rest, true
}

// looksLikePathLine reports whether s reads as a file-header line rather
// than arbitrary code or prose: the literal `rename-file` marker, the
// `// path` comment convention, a quoted path (optionally with a trailing
// dialect token), or a bare single-token path containing a directory
// separator or extension dot and none of the punctuation that would mark
// it as code instead (spaces, parens, braces, semicolons).
func looksLikePathLine(s string) bool {
	if s == "rename-file" || strings.HasPrefix(s, "//") || strings.HasPrefix(s, `"`) {
		return true
	}
	if strings.ContainsAny(s, " \t(){};=") {
		return false
	}
	return strings.ContainsAny(s, "./")
}

// extractPathDialect implements the header grammar of SPEC_FULL.md §4.4
// step 3, including its fallback. ok is false only when an explicitly
// provided strategy suffix (in the quoted-path grammar) names something
// other than one of the three known dialects.
func extractPathDialect(header string) (path string, dialect schema.PatchDialect, explicit, ok bool) {
	if strings.HasPrefix(header, `"`) {
		if end := strings.IndexByte(header[1:], '"'); end >= 0 {
			p := header[1 : 1+end]
			rest := strings.TrimSpace(header[1+end+1:])
			if rest == "" {
				return p, schema.DialectReplace, false, true
			}
			if schema.ValidDialect(rest) {
				return p, schema.PatchDialect(rest), true, true
			}
			return "", "", false, false
		}
		// Malformed quoting: no closing quote. Fall through to the
		// unquoted/fallback handling below, treating the header literally.
	}

	tokens := strings.Fields(header)
	switch {
	case len(tokens) == 0:
		return "", "", false, false
	case len(tokens) == 1:
		return tokens[0], schema.DialectReplace, false, true
	default:
		last := tokens[len(tokens)-1]
		if schema.ValidDialect(last) {
			cut := strings.LastIndex(header, last)
			prefix := strings.TrimRight(header[:cut], " \t")
			return prefix, schema.PatchDialect(last), true, true
		}
		// Fallback: treat the whole (trimmed) header as the path.
		return header, schema.DialectReplace, false, true
	}
}

func inferDialect(body string) schema.PatchDialect {
	if containsLineStart(body, "<<<<<<< SEARCH") && strings.Contains(body, ">>>>>>> REPLACE") {
		return schema.DialectSearchReplace
	}
	if strings.HasPrefix(body, "--- ") && strings.Contains(body, "+++ ") && strings.Contains(body, "@@") {
		return schema.DialectStandardDiff
	}
	return schema.DialectReplace
}

func containsLineStart(body, marker string) bool {
	if strings.HasPrefix(body, marker) {
		return true
	}
	return strings.Contains(body, "\n"+marker)
}

func stripOneLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	if strings.HasPrefix(s, "\n") {
		return s[1:]
	}
	return s
}
