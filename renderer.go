package mdpreview

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mdpreview/internal/highlight"
	"github.com/alnah/go-mdpreview/internal/linecache"
	"github.com/alnah/go-mdpreview/internal/parse"
	"github.com/alnah/go-mdpreview/internal/render"
)

// Compile-time interface implementation checks.
var _ render.Highlighter = (*highlight.Chroma)(nil)

// Default directive kinds recognized as admonitions.
var defaultDirectiveKinds = []string{"note", "tip", "important", "warning", "caution"}

// Default fence languages rendered as diagram containers.
var defaultDiagramLanguages = []string{"mermaid"}

// rendererConfig holds construction-time settings.
type rendererConfig struct {
	directiveKinds   []string
	diagramLanguages []string
	highlightStyle   string
	highlighting     bool
}

// Option customizes a Renderer at construction.
type Option func(*rendererConfig)

// WithDirectiveKinds replaces the recognized directive kinds.
func WithDirectiveKinds(kinds ...string) Option {
	return func(c *rendererConfig) { c.directiveKinds = kinds }
}

// WithDiagramLanguages replaces the fence languages rendered as
// diagram containers.
func WithDiagramLanguages(langs ...string) Option {
	return func(c *rendererConfig) { c.diagramLanguages = langs }
}

// WithSyntaxHighlighting enables per-line syntax highlighting of
// verbatim blocks using the named chroma style.
func WithSyntaxHighlighting(style string) Option {
	return func(c *rendererConfig) {
		c.highlighting = true
		c.highlightStyle = style
	}
}

// WithoutSyntaxHighlighting disables syntax highlighting.
func WithoutSyntaxHighlighting() Option {
	return func(c *rendererConfig) { c.highlighting = false }
}

// Renderer renders Markdown into line-annotated HTML. Construction
// builds the tokenizer and the decorated ruleset once; a Renderer is
// immutable afterward and safe for concurrent passes. The line cache
// is internally synchronized.
type Renderer struct {
	cfg       rendererConfig
	tokenizer *parse.Tokenizer
	ruleset   *render.Ruleset
	cache     *linecache.Cache
}

// New creates a Renderer with the given options.
func New(opts ...Option) *Renderer {
	cfg := rendererConfig{
		directiveKinds:   defaultDirectiveKinds,
		diagramLanguages: defaultDiagramLanguages,
		highlightStyle:   highlight.DefaultStyle,
		highlighting:     true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cache := linecache.New(0, 0)

	var hl render.Highlighter
	if cfg.highlighting {
		hl = &cachedHighlighter{
			inner: highlight.New(cfg.highlightStyle),
			cache: cache,
		}
	}

	return &Renderer{
		cfg:       cfg,
		tokenizer: parse.NewTokenizer(cfg.directiveKinds),
		ruleset: render.NewRuleset(render.Config{
			DiagramLanguages: cfg.diagramLanguages,
			Highlighter:      hl,
		}),
		cache: cache,
	}
}

// cachedHighlighter memoizes per-line highlight output in the line
// cache. Re-renders of a document repeat almost all of their verbatim
// lines, so unchanged lines skip tokenizing entirely.
type cachedHighlighter struct {
	inner render.Highlighter
	cache *linecache.Cache
}

func (c *cachedHighlighter) Line(lang, line string) (string, bool) {
	key := lang + "\x00" + line
	if entry, ok := c.cache.Get(key); ok {
		return entry.Rendered, true
	}
	out, ok := c.inner.Line(lang, line)
	if ok {
		c.cache.Put(key, out, "")
	}
	return out, ok
}

// rebindLines refreshes the cache's content → identifier bindings with
// the identifiers minted by the pass that just completed, so per-line
// consumers keyed by content can follow unchanged lines across passes.
func (r *Renderer) rebindLines(source string, pass *render.Pass) {
	lines := strings.Split(source, "\n")
	offset := pass.StartLine
	if pass.ChunkID != 0 {
		offset--
	}

	content := make(map[int]string, len(pass.LineMap))
	for abs := range pass.LineMap {
		rel := abs - offset
		if rel >= 0 && rel < len(lines) {
			content[abs] = lines[rel]
		}
	}

	r.cache.Rebind(pass.LineMap, content)

	// First-seen lines have no entry to rebind yet; seed them so the
	// next pass hits.
	for abs, id := range pass.LineMap {
		text, ok := content[abs]
		if !ok {
			continue
		}
		if _, cached := r.cache.Get(text); !cached {
			r.cache.Put(text, "", id)
		}
	}
}

// Render renders one pass over the input and returns the markup plus
// the populated line map. Supports context cancellation via the
// goroutine + select pattern since the underlying parser doesn't
// natively support context.
func (r *Renderer) Render(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	if in.StartLine < 0 || in.ChunkID < 0 {
		return nil, fmt.Errorf("%w: startLine=%d chunkId=%d", ErrInvalidPassContext, in.StartLine, in.ChunkID)
	}

	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		res *Result
		err error
	}

	done := make(chan result, 1)

	go func() {
		source := NormalizeLineEndings(in.Markdown)
		toks := r.tokenizer.Tokenize(source)
		pass := render.NewPass(in.StartLine, in.ChunkID)
		html, err := r.ruleset.Render(pass, toks)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		r.rebindLines(source, pass)
		done <- result{res: &Result{HTML: html, Lines: pass.LineMap}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.res, r.err
	}
}
