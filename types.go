package mdpreview

import "github.com/alnah/go-mdpreview/internal/render"

// LineIDAttribute is the reserved markup attribute carrying a line
// identifier. Editor-side consumers query the DOM by it; treat the
// name as a compatibility contract.
const LineIDAttribute = render.LineIDAttr

// LineMap maps absolute source line numbers to fragment identifiers.
// Entries are additive within a pass; a later write to the same line
// replaces the earlier one, so a line hosts at most one
// synchronization target. Block wrappers claim their first source
// line: a fenced code block maps its opening fence line to the wrapper
// element on top of the per-content-line entries.
type LineMap = render.LineMap

// Input describes one rendering invocation.
type Input struct {
	// Markdown is the source to render, required.
	Markdown string

	// StartLine is the absolute line at which this content begins
	// within the full document. Zero for whole-document renders.
	StartLine int

	// ChunkID is the 0-based chunk ordinal for incremental renders.
	// Non-initial chunks are assumed to start with one line of
	// overlapping context from the prior chunk. Zero for
	// whole-document renders.
	ChunkID int
}

// Result holds the rendered markup and the populated line map.
type Result struct {
	HTML  string
	Lines LineMap
}

// ChunkResult is the output of one chunk of a chunked render.
type ChunkResult struct {
	ChunkID   int
	StartLine int
	HTML      string
	Lines     LineMap
}

// ChunkedResult aggregates a chunked render. Chunks appear in document
// order; Lines merges every chunk's map with later chunks overwriting
// the shared overlap line.
type ChunkedResult struct {
	Chunks []ChunkResult
	Lines  LineMap
}
