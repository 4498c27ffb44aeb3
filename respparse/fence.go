package respparse

import "strings"

// fenceBlock is one ``` ... ``` fenced region found in source order.
type fenceBlock struct {
	// Start/End are byte offsets into the original text spanning the
	// opening fence line through the closing fence line, inclusive.
	Start, End int
	// Info is the text on the opening fence line after the backticks,
	// trimmed. For ```ts // path.ts this is "ts // path.ts".
	Info string
	// Body is the raw content between the fences, newlines preserved
	// exactly as they appeared in the source.
	Body string
}

// scanFences finds every top-level triple-backtick fenced region in text,
// in source order. Matches are disjoint: once a fence opens, its content is
// consumed verbatim (including any backtick lines that don't exactly match
// the closing-fence shape) until a line that is just "```", optionally
// indented and optionally followed by trailing whitespace, closes it.
//
// This is a hand-written scanner rather than a single regex, per the
// allowance in the patch-engine's own grammar notes: markdown fencing is
// line-oriented and a line-by-line pass is both simpler and more robust to
// the ragged output real models produce than one big regex.
func scanFences(text string) []fenceBlock {
	var blocks []fenceBlock

	lines := splitKeepEnds(text)
	offset := 0
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimRight(line, "\r\n")
		leading := leadingWhitespace(trimmed)
		rest := trimmed[len(leading):]
		if !strings.HasPrefix(rest, "```") {
			offset += len(line)
			i++
			continue
		}
		info := strings.TrimSpace(rest[3:])
		fenceStart := offset
		offset += len(line)
		i++

		bodyStart := offset
		bodyEnd := bodyStart
		closed := false
		for i < len(lines) {
			cur := lines[i]
			curTrimmed := strings.TrimRight(cur, "\r\n")
			curLeading := leadingWhitespace(curTrimmed)
			curRest := curTrimmed[len(curLeading):]
			if strings.TrimRight(curRest, " \t") == "```" {
				offset += len(cur)
				i++
				closed = true
				break
			}
			bodyEnd += len(cur)
			offset += len(cur)
			i++
		}
		if !closed {
			// Unterminated fence: the rest of the document is its body,
			// and there's no closing line to consume.
			bodyEnd = len(text)
			offset = len(text)
		}

		blocks = append(blocks, fenceBlock{
			Start: fenceStart,
			End:   offset,
			Info:  info,
			Body:  text[bodyStart:bodyEnd],
		})
	}
	return blocks
}

// splitKeepEnds splits s into lines, retaining each line's terminator
// ("\n" or "\r\n") so that concatenating the result reproduces s exactly.
func splitKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func leadingWhitespace(s string) string {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return s[:n]
}

// excise removes [start,end) from text and returns the result.
func excise(text string, start, end int) string {
	return text[:start] + text[end:]
}
