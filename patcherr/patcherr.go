// Package patcherr holds the typed error vocabulary shared by planner and
// applier, so callers can errors.Is/errors.As against a stable set of
// sentinels regardless of which stage produced the failure.
package patcherr

import (
	"errors"
	"fmt"
)

var (
	// ErrNoControlBlock means parse_response found no usable control block.
	ErrNoControlBlock = errors.New("no control block found")
	// ErrCannotDeleteMissing means a Delete targeted a path absent from the snapshot.
	ErrCannotDeleteMissing = errors.New("cannot delete: path missing from snapshot")
	// ErrCannotRenameMissing means a Rename's from-path was absent from the snapshot.
	ErrCannotRenameMissing = errors.New("cannot rename: source path missing from snapshot")
	// ErrSearchReplaceOnNewFile means a search-replace write targeted an absent path.
	ErrSearchReplaceOnNewFile = errors.New("search-replace write on a new file")
	// ErrUnknownDialect means an operation carried a dialect value the applier doesn't recognize.
	ErrUnknownDialect = errors.New("unknown patch dialect")
	// ErrPatchFailed means a dialect applier (standard-diff or search-replace) rejected its input.
	ErrPatchFailed = errors.New("patch failed")
)

// DeleteMissing wraps ErrCannotDeleteMissing with the offending path.
func DeleteMissing(path string) error {
	return fmt.Errorf("%s: %w", path, ErrCannotDeleteMissing)
}

// RenameMissing wraps ErrCannotRenameMissing with the offending source path.
func RenameMissing(from string) error {
	return fmt.Errorf("%s: %w", from, ErrCannotRenameMissing)
}

// SearchReplaceOnNewFile wraps ErrSearchReplaceOnNewFile with the offending path.
func SearchReplaceOnNewFile(path string) error {
	return fmt.Errorf("%s: %w", path, ErrSearchReplaceOnNewFile)
}

// UnknownDialect wraps ErrUnknownDialect with the offending value.
func UnknownDialect(value string) error {
	return fmt.Errorf("%q: %w", value, ErrUnknownDialect)
}

// PatchFailed wraps ErrPatchFailed with the offending path and underlying cause.
func PatchFailed(path string, cause error) error {
	return fmt.Errorf("%s: %w: %v", path, ErrPatchFailed, cause)
}
