// Package applier executes the per-path operation chains produced by
// patchcore.dev/planner against a snapshot, using caller-supplied dialect
// appliers for standard-diff and search-replace bodies.
package applier

import (
	"context"

	"golang.org/x/sync/errgroup"

	"patchcore.dev/patcherr"
	"patchcore.dev/planner"
	"patchcore.dev/schema"
)

// DialectAppliers holds the two pluggable functions the core consumes but
// never implements itself (spec.md §6/§1). Both must be pure and
// deterministic for a given input.
type DialectAppliers struct {
	ApplyStandardDiff  func(original, diff string) (string, error)
	ApplySearchReplace func(original, diff string) (string, error)
}

// Apply runs every chain's operations sequentially against snapshot and
// returns a new snapshot. On the first error it returns (nil, err); the
// caller never observes a partially applied snapshot.
func Apply(chains []planner.FileChain, snapshot schema.Snapshot, appliers DialectAppliers) (schema.Snapshot, error) {
	result := snapshot.Clone()
	for _, chain := range chains {
		final, err := applyChain(chain.Path, chain.Ops, initialPresence(snapshot, chain.Path), appliers)
		if err != nil {
			return nil, err
		}
		result[chain.Path] = final
	}
	return result, nil
}

// ApplyParallel runs each chain concurrently, one goroutine per final path
// — safe because the planner already guarantees disjoint paths across
// chains. It fans out with errgroup so the first error is the only one
// returned; chains already running are not stopped early (ctx is not
// consulted by the chains). On any error the snapshot is not mutated
// from the caller's point of view (nil is returned alongside the error).
func ApplyParallel(ctx context.Context, chains []planner.FileChain, snapshot schema.Snapshot, appliers DialectAppliers) (schema.Snapshot, error) {
	g, _ := errgroup.WithContext(ctx)
	finals := make([]schema.Presence, len(chains))

	for i, chain := range chains {
		i, chain := i, chain
		g.Go(func() error {
			final, err := applyChain(chain.Path, chain.Ops, initialPresence(snapshot, chain.Path), appliers)
			if err != nil {
				return err
			}
			finals[i] = final
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := snapshot.Clone()
	for i, chain := range chains {
		result[chain.Path] = finals[i]
	}
	return result, nil
}

func applyChain(path string, ops []schema.FileOperation, current schema.Presence, appliers DialectAppliers) (schema.Presence, error) {
	for _, op := range ops {
		switch op.Kind {
		case schema.OpDelete:
			if current.Absent {
				return schema.Presence{}, patcherr.DeleteMissing(path)
			}
			current = schema.AbsentFile()

		case schema.OpWrite:
			var (
				applied string
				err     error
			)
			switch op.Dialect {
			case schema.DialectReplace:
				current = schema.Present(op.Content)
				continue
			case schema.DialectStandardDiff:
				base := ""
				if !current.Absent {
					base = current.Content
				}
				applied, err = appliers.ApplyStandardDiff(base, op.Content)
			case schema.DialectSearchReplace:
				if current.Absent {
					return schema.Presence{}, patcherr.SearchReplaceOnNewFile(path)
				}
				applied, err = appliers.ApplySearchReplace(current.Content, op.Content)
			default:
				return schema.Presence{}, patcherr.UnknownDialect(string(op.Dialect))
			}
			if err != nil {
				return schema.Presence{}, patcherr.PatchFailed(path, err)
			}
			current = schema.Present(applied)
		}
	}
	return current, nil
}

// initialPresence treats a path absent from the map entirely the same as
// one explicitly marked absent: either way there is no current content
// for the chain to start from.
func initialPresence(snapshot schema.Snapshot, path string) schema.Presence {
	if p, ok := snapshot[path]; ok {
		return p
	}
	return schema.AbsentFile()
}
