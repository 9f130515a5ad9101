// Package parse adapts goldmark's AST into the linear token stream the
// renderer consumes. Block spans are computed from goldmark's byte
// segments through a line-offset index; inline content is flattened
// into open/close pairs markdown-renderer style.
package parse

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdpreview/internal/token"
)

// DirectiveMarker prefixes a fence info string to mark a directive
// block: ```!warning opens a "warning" directive.
const DirectiveMarker = "!"

// Tokenizer converts Markdown source into a token stream.
type Tokenizer struct {
	parser     parser.Parser
	directives map[string]bool
}

// NewTokenizer builds a tokenizer recognizing the given directive
// kinds. Fenced directives of any other kind become error-fallback
// tokens.
func NewTokenizer(directiveKinds []string) *Tokenizer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
	)
	known := make(map[string]bool, len(directiveKinds))
	for _, k := range directiveKinds {
		known[strings.ToLower(k)] = true
	}
	return &Tokenizer{parser: md.Parser(), directives: known}
}

// Tokenize parses source and returns the flattened token stream.
func (t *Tokenizer) Tokenize(source string) []*token.Token {
	src := []byte(source)
	doc := t.parser.Parse(text.NewReader(src))
	li := newLineIndex(src)

	var toks []*token.Token
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		toks = append(toks, t.blockTokens(c, src, li)...)
	}
	return toks
}

// lineIndex holds the byte offset of each line start, for mapping byte
// positions back to line numbers.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	li := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			li = append(li, i+1)
		}
	}
	return li
}

func (li lineIndex) lineAt(offset int) int {
	return sort.Search(len(li), func(i int) bool { return li[i] > offset }) - 1
}

// contentSpan derives a line span from a block node's content
// segments. Container blocks without own segments return nil.
func contentSpan(n ast.Node, li lineIndex) *token.Span {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return nil
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	start := li.lineAt(first.Start)
	end := start + 1
	if last.Stop > last.Start {
		end = li.lineAt(last.Stop-1) + 1
	}
	return &token.Span{Start: start, End: end}
}

// containerSpan unions the spans of already-built child tokens so
// container-open tokens carry positions too.
func containerSpan(children []*token.Token) *token.Span {
	var span *token.Span
	for _, c := range children {
		if c.Span == nil {
			continue
		}
		if span == nil {
			s := *c.Span
			span = &s
			continue
		}
		if c.Span.Start < span.Start {
			span.Start = c.Span.Start
		}
		if c.Span.End > span.End {
			span.End = c.Span.End
		}
	}
	return span
}

func (t *Tokenizer) blockTokens(n ast.Node, src []byte, li lineIndex) []*token.Token {
	switch n := n.(type) {
	case *ast.Paragraph:
		return wrapInline(n, src, li, token.KindParagraphOpen, token.KindParagraphClose, 0)

	case *ast.Heading:
		return wrapInline(n, src, li, token.KindHeadingOpen, token.KindHeadingClose, n.Level)

	case *ast.TextBlock:
		// Tight list items carry text blocks instead of paragraphs; the
		// inline content renders directly into the enclosing container.
		// The span rides on the inline token so the container open
		// token above it picks up the position.
		inline := &token.Token{
			Kind:     token.KindInline,
			Span:     contentSpan(n, li),
			Children: inlineTokens(n, src),
		}
		return []*token.Token{inline}

	case *ast.Blockquote:
		return t.containerTokens(n, src, li, token.KindBlockquoteOpen, token.KindBlockquoteClose)

	case *ast.List:
		open, close := token.KindBulletListOpen, token.KindBulletListClose
		if n.IsOrdered() {
			open, close = token.KindOrderedListOpen, token.KindOrderedListClose
		}
		return t.containerTokens(n, src, li, open, close)

	case *ast.ListItem:
		return t.containerTokens(n, src, li, token.KindListItemOpen, token.KindListItemClose)

	case *ast.FencedCodeBlock:
		return []*token.Token{t.fenceToken(n, src, li)}

	case *ast.CodeBlock:
		// Indented code has no delimiter lines; it renders as a plain
		// verbatim block without line claims.
		return []*token.Token{{Kind: token.KindFence, Content: blockContent(n, src)}}

	case *ast.ThematicBreak:
		return []*token.Token{{Kind: token.KindThematicBreak}}

	default:
		// Unknown blocks (raw HTML among them) pass through as plain
		// content with no position, rendered by the fallback rule.
		if content := blockContent(n, src); content != "" {
			return []*token.Token{{Kind: token.KindNone, Content: content}}
		}
		return nil
	}
}

// wrapInline emits open + inline + close for a paragraph or heading.
func wrapInline(n ast.Node, src []byte, li lineIndex, open, close token.Kind, level int) []*token.Token {
	span := contentSpan(n, li)
	openTok := &token.Token{Kind: open, Span: span, Level: level}
	closeTok := &token.Token{Kind: close, Level: level}
	inline := &token.Token{Kind: token.KindInline, Children: inlineTokens(n, src)}
	return []*token.Token{openTok, inline, closeTok}
}

// containerTokens emits open + child blocks + close for a block
// container, deriving the container span from its children.
func (t *Tokenizer) containerTokens(n ast.Node, src []byte, li lineIndex, open, close token.Kind) []*token.Token {
	var inner []*token.Token
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		inner = append(inner, t.blockTokens(c, src, li)...)
	}
	openTok := &token.Token{Kind: open, Span: containerSpan(inner)}
	out := make([]*token.Token, 0, len(inner)+2)
	out = append(out, openTok)
	out = append(out, inner...)
	return append(out, &token.Token{Kind: close})
}

// fenceToken builds the fence, directive or directive-error token for
// a fenced code block. The span covers the delimiters: it starts at the
// opening fence line, so content begins at span.Start+1.
func (t *Tokenizer) fenceToken(n *ast.FencedCodeBlock, src []byte, li lineIndex) *token.Token {
	content := blockContent(n, src)

	var info string
	if n.Info != nil {
		info = strings.TrimSpace(string(n.Info.Segment.Value(src)))
	}

	span := fenceSpan(n, li)

	if kind, ok := strings.CutPrefix(info, DirectiveMarker); ok {
		kind = strings.ToLower(strings.TrimSpace(kind))
		tk := &token.Token{Kind: token.KindDirective, Span: span, Content: content, Info: kind}
		if !t.directives[kind] {
			tk.Kind = token.KindDirectiveError
		}
		return tk
	}

	return &token.Token{Kind: token.KindFence, Span: span, Content: content, Info: info}
}

// fenceSpan locates the opening fence line from the info segment when
// present, or one line above the first content line otherwise.
func fenceSpan(n *ast.FencedCodeBlock, li lineIndex) *token.Span {
	contentLines := n.Lines().Len()

	if n.Info != nil {
		start := li.lineAt(n.Info.Segment.Start)
		return &token.Span{Start: start, End: start + contentLines + 2}
	}
	if contentLines > 0 {
		start := li.lineAt(n.Lines().At(0).Start) - 1
		return &token.Span{Start: start, End: start + contentLines + 2}
	}
	return nil
}

// blockContent joins a block node's content segments into one string.
func blockContent(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// inlineTokens flattens a block's inline children into the linear
// open/close form the renderer and the line annotator walk.
func inlineTokens(parent ast.Node, src []byte) []*token.Token {
	var out []*token.Token
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, inlineNode(c, src)...)
	}
	return out
}

func inlineNode(n ast.Node, src []byte) []*token.Token {
	switch n := n.(type) {
	case *ast.Text:
		out := []*token.Token{{Kind: token.KindText, Content: string(n.Segment.Value(src))}}
		switch {
		case n.HardLineBreak():
			out = append(out, &token.Token{Kind: token.KindHardBreak})
		case n.SoftLineBreak():
			out = append(out, &token.Token{Kind: token.KindSoftBreak})
		}
		return out

	case *ast.String:
		return []*token.Token{{Kind: token.KindText, Content: string(n.Value)}}

	case *ast.CodeSpan:
		var b strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		return []*token.Token{{Kind: token.KindCodeSpan, Content: b.String()}}

	case *ast.Emphasis:
		open, close := token.KindEmphasisOpen, token.KindEmphasisClose
		if n.Level >= 2 {
			open, close = token.KindStrongOpen, token.KindStrongClose
		}
		return surround(n, src, open, close, "")

	case *east.Strikethrough:
		return surround(n, src, token.KindStrikethroughOpen, token.KindStrikethroughClose, "")

	case *ast.Link:
		return surround(n, src, token.KindLinkOpen, token.KindLinkClose, string(n.Destination))

	case *ast.AutoLink:
		url := string(n.URL(src))
		return []*token.Token{
			{Kind: token.KindLinkOpen, Info: url},
			{Kind: token.KindText, Content: string(n.Label(src))},
			{Kind: token.KindLinkClose},
		}

	case *ast.Image:
		return []*token.Token{{
			Kind:    token.KindImage,
			Info:    string(n.Destination),
			Content: string(n.Text(src)),
		}}

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(src))
		}
		// Raw HTML renders escaped, matching the renderer's no-unsafe
		// stance.
		return []*token.Token{{Kind: token.KindText, Content: b.String()}}

	default:
		return nil
	}
}

// surround wraps a node's flattened children in an open/close pair.
func surround(n ast.Node, src []byte, open, close token.Kind, info string) []*token.Token {
	out := []*token.Token{{Kind: open, Info: info}}
	out = append(out, inlineTokens(n, src)...)
	return append(out, &token.Token{Kind: close})
}
