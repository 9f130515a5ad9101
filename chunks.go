package mdpreview

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// DefaultChunkSize is the number of source lines per chunk when the
// caller passes 0 to RenderChunks.
const DefaultChunkSize = 200

// maxChunkWorkers caps concurrent chunk passes.
const maxChunkWorkers = 8

// chunkWorkers sizes the worker pool for chunked rendering.
func chunkWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	if n > maxChunkWorkers {
		n = maxChunkWorkers
	}
	return n
}

// RenderChunks splits the document into chunks of chunkSize lines and
// renders them concurrently, one pass context per chunk. Non-initial
// chunks are rendered with one line of overlapping context from the
// prior chunk so block boundaries survive the split; the pass context
// subtracts that line to keep absolute numbering consistent.
//
// Chunk HTML is returned per chunk, not concatenated: the overlap line
// renders in two chunks and the host editor replaces per-chunk regions
// in place.
func (r *Renderer) RenderChunks(ctx context.Context, markdown string, chunkSize int) (*ChunkedResult, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	if chunkSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	source := NormalizeLineEndings(markdown)
	lines := strings.Split(source, "\n")

	chunkCount := (len(lines) + chunkSize - 1) / chunkSize
	results := make([]ChunkResult, chunkCount)
	errs := make([]error, chunkCount)

	var wg sync.WaitGroup
	sem := make(chan struct{}, chunkWorkers())

	for i := 0; i < chunkCount; i++ {
		startLine := i * chunkSize
		from := startLine
		if i > 0 {
			from-- // overlap line from the prior chunk
		}
		to := min(startLine+chunkSize, len(lines))
		chunkSource := strings.Join(lines[from:to], "\n")

		wg.Add(1)
		go func(id int, src string, start int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := r.Render(ctx, Input{Markdown: src, StartLine: start, ChunkID: id})
			if err != nil {
				// Blank chunks are legal inside a larger document.
				if errors.Is(err, ErrEmptyMarkdown) {
					results[id] = ChunkResult{ChunkID: id, StartLine: start, Lines: LineMap{}}
					return
				}
				errs[id] = err
				return
			}
			results[id] = ChunkResult{ChunkID: id, StartLine: start, HTML: res.HTML, Lines: res.Lines}
		}(i, chunkSource, startLine)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := LineMap{}
	for _, chunk := range results {
		for line, id := range chunk.Lines {
			merged[line] = id
		}
	}
	return &ChunkedResult{Chunks: results, Lines: merged}, nil
}
