package respparse

// scanBlocks iterates the fenced code regions of the residual text (the
// text remaining after metadata extraction) and returns them in source
// order. It is a thin, named wrapper over scanFences so the pipeline stage
// described in SPEC_FULL.md's component table ("code-block scanner") has its
// own entry point independent of how fences happen to be tokenized.
func scanBlocks(residual string) []fenceBlock {
	return scanFences(residual)
}
