// Package respparse turns a raw, loosely-structured LLM response into a
// schema.ParsedResponse: a decoded control block plus an ordered list of
// file operations extracted from the response's fenced code blocks.
package respparse

import (
	"sort"
	"strings"

	"patchcore.dev/schema"
)

// Parse extracts a control block and a set of file operations from raw.
// It returns (nil, false) when no valid control block can be found, or when
// the control block is found but zero blocks classify into operations —
// a response with metadata and no actionable changes is not a patch.
func Parse(raw string) (*schema.ParsedResponse, bool) {
	ctrl, residual, ok := extractMetadata(raw)
	if !ok {
		return nil, false
	}

	blocks := scanBlocks(residual)

	var ops []schema.FileOperation
	var consumed []fenceBlock
	for _, b := range blocks {
		op, ok := classifyBlock(b.Info, b.Body)
		if !ok {
			continue
		}
		ops = append(ops, op)
		consumed = append(consumed, b)
	}
	if len(ops) == 0 {
		return nil, false
	}

	return &schema.ParsedResponse{
		Control:    ctrl,
		Operations: ops,
		Reasoning:  reasoningLines(residual, consumed),
	}, true
}

// reasoningLines returns residual with the extents of every successfully
// classified block excised, split into its non-empty, trimmed lines.
func reasoningLines(residual string, consumed []fenceBlock) []string {
	ordered := make([]fenceBlock, len(consumed))
	copy(ordered, consumed)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	text := residual
	for _, b := range ordered {
		text = excise(text, b.Start, b.End)
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
