// Command patchctl reads a pasted LLM response (from the clipboard, a
// file, or stdin), parses it into a set of file operations, applies them
// against a project directory, and writes the result back to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/diff"
	"github.com/richardlehane/crock32"

	"patchcore.dev/applier"
	"patchcore.dev/dialect"
	"patchcore.dev/linechange"
	"patchcore.dev/planner"
	"patchcore.dev/respparse"
	"patchcore.dev/schema"
	"patchcore.dev/skribe"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "patchctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := flag.String("dir", ".", "project directory to read and patch")
	input := flag.String("input", "clipboard", `where to read the response from: "clipboard", "stdin", or a file path`)
	dryRun := flag.Bool("dry-run", false, "print the computed diff without writing to disk")
	parallel := flag.Bool("parallel", false, "apply independent files' patches concurrently")
	verbose := flag.Bool("verbose", false, "log to stdout instead of a temp file")
	runID := flag.String("run-id", newRunID(), "(internal) unique id for this invocation, used in logs")
	flag.Parse()

	ctx := skribe.ContextWithAttr(context.Background(), slog.String("run_id", *runID))

	logFile, err := setupLogging(*verbose)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
		fmt.Printf("structured logs: %s\n", logFile.Name())
	}

	raw, err := readInput(*input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	slog.DebugContext(ctx, "read_response", "bytes", len(raw), "preview", skribe.Truncate(raw, 200))

	snapshot, err := loadSnapshot(*dir)
	if err != nil {
		return fmt.Errorf("loading snapshot of %s: %w", *dir, err)
	}

	parsed, ok := respparse.Parse(raw)
	if !ok {
		return fmt.Errorf("no control block or no valid operations found in input")
	}
	slog.InfoContext(ctx, "parsed_response",
		"project_id", parsed.Control.ProjectID,
		"operations", len(parsed.Operations),
	)

	chains, postRename, err := planner.Plan(parsed.Operations, snapshot)
	if err != nil {
		return fmt.Errorf("planning operations: %w", err)
	}

	appliers := applier.DialectAppliers{
		ApplyStandardDiff:  dialect.ApplyStandardDiff,
		ApplySearchReplace: dialect.ApplySearchReplace,
	}

	var newSnapshot schema.Snapshot
	if *parallel {
		newSnapshot, err = applier.ApplyParallel(ctx, chains, postRename, appliers)
	} else {
		newSnapshot, err = applier.Apply(chains, postRename, appliers)
	}
	if err != nil {
		return fmt.Errorf("applying operations: %w", err)
	}

	printSummary(*dir, parsed.Operations, snapshot, newSnapshot)

	if *dryRun {
		return nil
	}
	return writeSnapshot(*dir, snapshot, newSnapshot)
}

func setupLogging(verbose bool) (*os.File, error) {
	if verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
		return nil, nil
	}
	f, err := os.CreateTemp("", "patchctl-log-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create log file: %w", err)
	}
	h := skribe.AttrsWrap(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(slog.New(h))
	return f, nil
}

func readInput(input string) (string, error) {
	switch input {
	case "clipboard":
		return clipboard.ReadAll()
	case "stdin":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func loadSnapshot(root string) (schema.Snapshot, error) {
	snap := schema.Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = schema.Present(string(data))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// writeSnapshot writes back only the paths whose presence actually
// changed between before and after, matching spec.md §1's treatment of
// filesystem writes as an out-of-core I/O shim.
func writeSnapshot(root string, before, after schema.Snapshot) error {
	for path, newP := range after {
		oldP, existed := before[path]
		if existed && !oldP.Absent && !newP.Absent && oldP.Content == newP.Content {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(path))
		if newP.Absent {
			if existed && !oldP.Absent {
				if err := os.Remove(full); err != nil {
					return fmt.Errorf("removing %s: %w", path, err)
				}
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
		if err := os.WriteFile(full, []byte(newP.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func printSummary(root string, ops []schema.FileOperation, before, after schema.Snapshot) {
	touched := map[string]bool{}
	for _, op := range ops {
		switch op.Kind {
		case schema.OpWrite, schema.OpDelete:
			touched[op.Path] = true
		case schema.OpRename:
			touched[op.From] = true
			touched[op.To] = true
		}
	}

	for path := range touched {
		oldContent, oldPresent := contentOf(before, path)
		newContent, newPresent := contentOf(after, path)
		if oldPresent == newPresent && oldContent == newContent {
			continue
		}
		fmt.Println(headerStyle.Render(path))
		buf := new(strings.Builder)
		if err := diff.Text("a/"+path, "b/"+path, oldContent, newContent, buf); err != nil {
			fmt.Printf("(diff generation failed: %v)\n", err)
			continue
		}
		printColorized(buf.String())
	}

	total := linechange.Summarize(ops, before, after)
	fmt.Printf("%s lines added, %s lines removed\n",
		humanize.Comma(int64(total.Added)), humanize.Comma(int64(total.Removed)))
}

func printColorized(diffText string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			green.Println(line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			red.Println(line)
		default:
			fmt.Println(line)
		}
	}
}

func contentOf(snapshot schema.Snapshot, path string) (string, bool) {
	p, ok := snapshot[path]
	if !ok || p.Absent {
		return "", false
	}
	return p.Content, true
}

// newRunID mirrors the teacher's session-ID generation in cmd/sketch: one
// random uint64 and one random 16-bit value, crock32-encoded, formatted as
// four dash-separated groups of four characters.
func newRunID() string {
	u1, u2 := rand.Uint64(), rand.Uint64N(1<<16)
	s := crock32.Encode(u1) + crock32.Encode(uint64(u2))
	if len(s) < 16 {
		s += strings.Repeat("0", 16-len(s))
	}
	return s[0:4] + "-" + s[4:8] + "-" + s[8:12] + "-" + s[12:16]
}
