package render

import (
	"github.com/alnah/go-mdpreview/internal/markup"
	"github.com/alnah/go-mdpreview/internal/token"
)

// Stage decorates a Ruleset, returning a new one with some rules
// wrapped. Stages compose at construction only; the resulting Ruleset
// is immutable.
type Stage interface {
	Decorate(rs *Ruleset) *Ruleset
}

// annotations is the interception stage. It wraps every binding, plus
// the fallback, so the line annotator runs transparently ahead of each
// rule's own output logic. It must be composed after the span and
// directive stages: the annotator writes the identifier into the token
// attributes, and it is those stages' output the attribute must land
// in.
type annotations struct{}

func (annotations) Decorate(rs *Ruleset) *Ruleset {
	wrap := func(inner Rule) Rule {
		return func(p *Pass, toks []*token.Token, idx int) (markup.Node, error) {
			annotate(p, toks, idx)
			return inner(p, toks, idx)
		}
	}

	out := rs.clone()
	for kind, rule := range out.rules {
		out.rules[kind] = wrap(rule)
	}
	out.fallback = wrap(out.fallback)
	return out
}

// annotate computes the line claim for the token at idx. It mutates
// only the pass's LineMap and token attributes, never the produced
// content.
//
// Inline-bearing containers do not claim their own lines: their leading
// text run on each visual line is given a derived one-line span so the
// claim fires when that child renders. Every other spanned token claims
// its span start. Line breaks are visited but never annotated.
func annotate(p *Pass, toks []*token.Token, idx int) {
	tok := toks[idx]
	if tok.Kind.IsBreak() {
		return
	}
	// Inline tokens only carry position for their enclosing container;
	// claims belong to their children.
	if tok.Kind == token.KindInline {
		return
	}

	switch tok.Kind {
	case token.KindParagraphOpen, token.KindHeadingOpen:
		prepareInlineSpans(tok, toks, idx)
	default:
		if tok.Span == nil {
			return
		}
		tok.Span.Validate()
		tok.SetAttr(LineIDAttr, p.Claim(tok.Span.Start))
	}
}

// prepareInlineSpans walks the children of the inline token following
// an inline-bearing container, tracking a visual-line counter seeded at
// the container's span start. The first child on each newly-claimed
// visual line receives a derived one-line span; no identifier is minted
// here — the claim happens when that child is itself rendered later in
// the same pass.
func prepareInlineSpans(open *token.Token, toks []*token.Token, idx int) {
	if open.Span == nil {
		return
	}
	open.Span.Validate()

	if idx+1 >= len(toks) || toks[idx+1].Kind != token.KindInline {
		return
	}
	inline := toks[idx+1]

	line := 0
	claimed := false
	for _, child := range inline.Children {
		if child.Kind.IsBreak() {
			line++
			claimed = false
			continue
		}
		if claimed {
			continue
		}
		if child.Span == nil {
			start := open.Span.Start + line
			child.Span = &token.Span{Start: start, End: start + 1}
		}
		claimed = true
	}
}
