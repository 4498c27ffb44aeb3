package respparse

import (
	"strings"

	"gopkg.in/yaml.v3"
	"patchcore.dev/schema"
)

// extractMetadata finds the trailing control block in raw text and returns
// the decoded control plus the residual text with that block excised.
//
// Strategy, in order, first schema-valid hit wins:
//  1. Last fenced yaml/yml block.
//  2. A bare tail anchored by a "projectId:" line within the last 20 lines
//     of the trimmed text.
//  3. Give up: (zero Control, raw text, false).
//
// When the last fenced block fails validation, an earlier *valid* fenced
// block is deliberately never tried: falling through to strategy 2 instead
// of backtracking through earlier fences is the documented (if surprising)
// behavior of the source this was distilled from. See SPEC_FULL.md §11.
func extractMetadata(raw string) (schema.Control, string, bool) {
	if ctrl, residual, ok := extractLastFencedYAML(raw); ok {
		return ctrl, residual, true
	}
	if ctrl, residual, ok := extractBareTail(raw); ok {
		return ctrl, residual, true
	}
	return schema.Control{}, raw, false
}

func extractLastFencedYAML(raw string) (schema.Control, string, bool) {
	blocks := scanFences(raw)
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		lang := strings.ToLower(strings.TrimSpace(b.Info))
		if lang != "yaml" && lang != "yml" {
			continue
		}
		ctrl, err := decodeControl(b.Body)
		if err != nil {
			// Only the *last* yaml/yml fence is ever tried; an earlier one
			// that would have validated is intentionally not attempted.
			return schema.Control{}, "", false
		}
		residual := strings.TrimSpace(excise(raw, b.Start, b.End))
		return ctrl, residual, true
	}
	return schema.Control{}, "", false
}

func extractBareTail(raw string) (schema.Control, string, bool) {
	trimmed := strings.TrimRight(raw, " \t\r\n")
	lines := strings.Split(trimmed, "\n")
	window := 20
	start := 0
	if len(lines) > window {
		start = len(lines) - window
	}
	for i := len(lines) - 1; i >= start; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "projectId:") {
			tailText := strings.Join(lines[i:], "\n")
			ctrl, err := decodeControl(tailText)
			if err != nil {
				return schema.Control{}, "", false
			}
			residual := strings.TrimSpace(strings.Join(lines[:i], "\n"))
			return ctrl, residual, true
		}
	}
	return schema.Control{}, "", false
}

func decodeControl(body string) (schema.Control, error) {
	var ctrl schema.Control
	if err := yaml.Unmarshal([]byte(body), &ctrl); err != nil {
		return schema.Control{}, err
	}
	if err := ctrl.Validate(); err != nil {
		return schema.Control{}, err
	}
	return ctrl, nil
}
