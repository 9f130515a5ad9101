// Package highlight renders syntax-highlighted markup for verbatim
// content one physical line at a time, keeping each line its own
// addressable element.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Chroma highlights single lines using the chroma lexer registry.
// Inline styles are emitted so the output needs no stylesheet; the
// surrounding pre/code structure is owned by the caller.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New returns a highlighter using the named chroma style, falling back
// to the registry default for unknown names.
func New(styleName string) *Chroma {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Chroma{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Line highlights one line of code. Lines are tokenized independently,
// so multi-line constructs restart lexing on every line. Returns false
// for unknown languages or tokenizer failures so the caller falls back
// to plain text.
func (c *Chroma) Line(lang, line string) (string, bool) {
	if strings.TrimSpace(lang) == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	if err := c.formatter.Format(&b, c.style, iterator); err != nil {
		return "", false
	}
	return strings.TrimSuffix(b.String(), "\n"), true
}
