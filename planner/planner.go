// Package planner turns a flat, envelope-ordered list of file operations
// into per-path operation chains ready for application: renames are
// resolved first (updating a transitive path-rewrite map), remaining
// operations are remapped through it, stale paths are optionally repaired
// by basename/suffix match, and the result is grouped by final path.
package planner

import (
	"sort"
	"strings"

	"patchcore.dev/patcherr"
	"patchcore.dev/schema"
)

// FileChain is one final path's ordered operation stream.
type FileChain struct {
	Path string
	Ops  []schema.FileOperation
}

// Plan executes renames against snapshot, remaps and fuzzy-repairs the
// remaining operations, and groups them by final path. The returned
// snapshot reflects only the rename step (absent/reassigned entries); it
// is the starting point for the applier, which performs the writes and
// deletes in each chain.
func Plan(ops []schema.FileOperation, snapshot schema.Snapshot) ([]FileChain, schema.Snapshot, error) {
	working := snapshot.Clone()

	var renames, others []schema.FileOperation
	for _, op := range ops {
		if op.Kind == schema.OpRename {
			renames = append(renames, op)
		} else {
			others = append(others, op)
		}
	}

	rewrite := map[string]string{}
	for _, r := range renames {
		if !working.Has(r.From) {
			return nil, nil, patcherr.RenameMissing(r.From)
		}
		prev := working[r.From]
		working[r.From] = schema.AbsentFile()
		working[r.To] = prev

		for x, target := range rewrite {
			if target == r.From {
				rewrite[x] = r.To
			}
		}
		rewrite[r.From] = r.To
	}

	remapped := make([]schema.FileOperation, len(others))
	for i, op := range others {
		remapped[i] = op
		if to, ok := rewrite[op.Path]; ok {
			remapped[i].Path = to
		}
	}

	repairPaths(remapped, working)

	return groupByPath(remapped), working, nil
}

// repairPaths mutates ops in place, reattaching a stale path to an
// existing snapshot entry when the op is fuzzy-repair eligible: a delete,
// or a non-replace write, whose path isn't a key in snapshot.
func repairPaths(ops []schema.FileOperation, snapshot schema.Snapshot) {
	for i, op := range ops {
		if op.Kind == schema.OpWrite && op.Dialect == schema.DialectReplace {
			continue
		}
		if snapshot.Has(op.Path) {
			continue
		}
		if repaired, ok := repairPath(op.Path, snapshot); ok {
			ops[i].Path = repaired
		}
	}
}

// repairPath finds a unique snapshot key sharing target's basename, or
// among several such keys the one with a strictly greatest trailing
// path-segment match against target. A tie leaves the path unrepaired.
func repairPath(target string, snapshot schema.Snapshot) (string, bool) {
	targetBase := basename(target)

	var candidates []string
	for k := range snapshot {
		if basename(k) == targetBase {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	sort.Strings(candidates)

	bestScore, best, tie := -1, "", false
	for _, c := range candidates {
		score := trailingMatchScore(target, c)
		switch {
		case score > bestScore:
			bestScore, best, tie = score, c, false
		case score == bestScore:
			tie = true
		}
	}
	if tie {
		return "", false
	}
	return best, true
}

func basename(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

func segments(p string) []string {
	return strings.Split(strings.ReplaceAll(p, `\`, "/"), "/")
}

// trailingMatchScore counts how many path segments, compared right to
// left, match exactly between a and b.
func trailingMatchScore(a, b string) int {
	as, bs := segments(a), segments(b)
	i, j, score := len(as)-1, len(bs)-1, 0
	for i >= 0 && j >= 0 && as[i] == bs[j] {
		score++
		i--
		j--
	}
	return score
}

func groupByPath(ops []schema.FileOperation) []FileChain {
	var chains []FileChain
	index := make(map[string]int, len(ops))
	for _, op := range ops {
		if idx, ok := index[op.Path]; ok {
			chains[idx].Ops = append(chains[idx].Ops, op)
			continue
		}
		index[op.Path] = len(chains)
		chains = append(chains, FileChain{Path: op.Path, Ops: []schema.FileOperation{op}})
	}
	return chains
}
