package render

import (
	"strings"

	"github.com/alnah/go-mdpreview/internal/markup"
	"github.com/alnah/go-mdpreview/internal/token"
)

// textSpans wraps every rendered text run in an addressable span
// carrying the run's token attributes. Text runs natively render as
// bare character data; without the wrapper they could never host an
// identifier.
type textSpans struct{}

func (textSpans) Decorate(rs *Ruleset) *Ruleset {
	out := rs.clone()
	inner := out.lookup(token.KindText)
	out.rules[token.KindText] = func(p *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		node, err := inner(p, toks, idx)
		if err != nil {
			return nil, err
		}
		return withAttrs(markup.NewElement("span", node), toks[idx]), nil
	}
	return out
}

// verbatimSpans splits verbatim block content into individually
// addressable physical lines. Extensions repurpose the fence rule for
// non-text output (diagrams); those are recognized by the produced root
// element and only patched with the token's attributes.
type verbatimSpans struct {
	cfg Config
}

func (s verbatimSpans) Decorate(rs *Ruleset) *Ruleset {
	out := rs.clone()
	inner := out.lookup(token.KindFence)
	out.rules[token.KindFence] = func(p *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		node, err := inner(p, toks, idx)
		if err != nil {
			return nil, err
		}
		el, ok := node.(*markup.Element)
		if !ok {
			return node, nil
		}

		tok := toks[idx]
		if el.Tag != "pre" {
			// Not a true verbatim block. The wrapper still needs the
			// token's attributes so the block stays addressable.
			return withAttrs(el, tok), nil
		}

		code := fenceCodeChild(el)
		if code == nil {
			return withAttrs(el, tok), nil
		}

		// Content arrives as one undivided string whose final line
		// break produces a trailing empty segment.
		lines := strings.Split(tok.Content, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}

		lang := strings.TrimSpace(tok.Info)
		code.Children = nil
		for i, line := range lines {
			var content markup.Node = markup.Text(line + "\n")
			if s.cfg.Highlighter != nil {
				if hl, ok := s.cfg.Highlighter.Line(lang, line); ok {
					content = markup.Raw(hl + "\n")
				}
			}
			span := markup.NewElement("span", content)
			if tok.Span != nil {
				// Content begins one line after the opening fence.
				span.SetAttr(LineIDAttr, p.Claim(tok.Span.Start+i+1))
			}
			code.Append(span)
		}
		return withAttrs(el, tok), nil
	}
	return out
}

// fenceCodeChild returns the code element inside a pre wrapper.
func fenceCodeChild(pre *markup.Element) *markup.Element {
	for _, child := range pre.Children {
		if el, ok := child.(*markup.Element); ok && el.Tag == "code" {
			return el
		}
	}
	return nil
}

// directivePatch copies token attributes onto the root element produced
// by the directive renderers, which omit them by construction. It runs
// inside the annotate stage so the identifier attribute is already on
// the token at patch time.
type directivePatch struct{}

func (directivePatch) Decorate(rs *Ruleset) *Ruleset {
	out := rs.clone()
	for _, kind := range []token.Kind{token.KindDirective, token.KindDirectiveError} {
		inner := out.lookup(kind)
		out.rules[kind] = func(p *Pass, toks []*token.Token, idx int) (markup.Node, error) {
			node, err := inner(p, toks, idx)
			if err != nil {
				return nil, err
			}
			if el, ok := node.(*markup.Element); ok {
				return withAttrs(el, toks[idx]), nil
			}
			return node, nil
		}
	}
	return out
}
