// Package schema defines the operation algebra, control metadata, and
// parsed-response envelope that the rest of the patch engine operates on.
//
// Every boundary type lives here so that parsing, planning, and applying
// share one vocabulary. Decoding from raw text (YAML, JSON, header grammar)
// happens in the respparse package; this package only validates already
// structured values.
package schema

import (
	"fmt"

	"github.com/google/uuid"
)

// PatchDialect selects how a Write operation's body should be interpreted.
type PatchDialect string

const (
	// DialectReplace means the body is the full new file contents.
	DialectReplace PatchDialect = "replace"
	// DialectStandardDiff means the body is a unified diff.
	DialectStandardDiff PatchDialect = "standard-diff"
	// DialectSearchReplace means the body is one or more SEARCH/REPLACE blocks.
	DialectSearchReplace PatchDialect = "search-replace"
)

// ValidDialect reports whether s names one of the three known dialects.
func ValidDialect(s string) bool {
	switch PatchDialect(s) {
	case DialectReplace, DialectStandardDiff, DialectSearchReplace:
		return true
	}
	return false
}

// OpKind tags which variant a FileOperation holds.
type OpKind int

const (
	OpWrite OpKind = iota
	OpDelete
	OpRename
)

// FileOperation is a tagged union of Write, Delete, and Rename.
//
// Only the fields relevant to Kind are meaningful:
//
//	OpWrite:  Path, Content, Dialect
//	OpDelete: Path
//	OpRename: From, To
type FileOperation struct {
	Kind    OpKind
	Path    string
	Content string
	Dialect PatchDialect
	From    string
	To      string
}

func Write(path, content string, dialect PatchDialect) FileOperation {
	return FileOperation{Kind: OpWrite, Path: path, Content: content, Dialect: dialect}
}

func Delete(path string) FileOperation {
	return FileOperation{Kind: OpDelete, Path: path}
}

func Rename(from, to string) FileOperation {
	return FileOperation{Kind: OpRename, From: from, To: to}
}

// ChangeSummaryEntry is a single-key mapping from the control block's
// changeSummary list. The key and value are not interpreted by the core.
type ChangeSummaryEntry map[string]string

// Control carries the trailing metadata block's fields.
type Control struct {
	ProjectID      string               `yaml:"projectId"`
	UUID           string               `yaml:"uuid"`
	ChangeSummary  []ChangeSummaryEntry `yaml:"changeSummary,omitempty"`
	GitCommitMsg   any                  `yaml:"gitCommitMsg,omitempty"` // string or []string
	PromptSummary  string               `yaml:"promptSummary,omitempty"`
}

// Validate checks the required fields: a non-empty ProjectID and a
// well-formed UUID. Unknown fields are never rejected; they are tolerated
// for forward compatibility by construction (we only decode named fields).
func (c Control) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("control: projectId is required")
	}
	if _, err := uuid.Parse(c.UUID); err != nil {
		return fmt.Errorf("control: uuid is not a valid UUID: %w", err)
	}
	switch c.GitCommitMsg.(type) {
	case nil, string:
	case []any:
	default:
		return fmt.Errorf("control: gitCommitMsg must be a string or a list of strings")
	}
	return nil
}

// GitCommitMessages normalizes GitCommitMsg to a slice of strings,
// regardless of whether the source YAML held a scalar or a list.
func (c Control) GitCommitMessages() []string {
	switch v := c.GitCommitMsg.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ParsedResponse is the output of extracting operations and control
// metadata from one raw LLM response.
type ParsedResponse struct {
	Control    Control
	Operations []FileOperation
	Reasoning  []string
}

// Presence distinguishes "absent" (tracked, no content) from the zero value
// not being in the map at all, which schema.Snapshot callers interpret as
// "unknown path".
type Presence struct {
	Content string
	Absent  bool
}

func Present(content string) Presence { return Presence{Content: content} }
func AbsentFile() Presence            { return Presence{Absent: true} }

// Snapshot maps a path to its tracked presence. A path missing from the map
// entirely is "unknown" to the snapshot; see Has.
type Snapshot map[string]Presence

// Has reports whether path is tracked at all (present or absent).
func (s Snapshot) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Clone returns a shallow copy safe to mutate independently of s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
