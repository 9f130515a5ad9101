package render

import (
	"fmt"
	"strings"

	"github.com/alnah/go-mdpreview/internal/markup"
	"github.com/alnah/go-mdpreview/internal/token"
)

// Highlighter produces pre-rendered markup for one line of code.
// Implementations report false when the language is unknown so the
// caller can fall back to plain text.
type Highlighter interface {
	Line(lang, line string) (string, bool)
}

// Config selects rule behavior fixed at Ruleset construction.
type Config struct {
	// DiagramLanguages lists fence info strings rendered as diagram
	// containers instead of code blocks (e.g. "mermaid").
	DiagramLanguages []string

	// Highlighter, when non-nil, highlights verbatim content per line.
	Highlighter Highlighter
}

func (c Config) isDiagram(lang string) bool {
	lang = strings.TrimSpace(strings.ToLower(lang))
	for _, d := range c.DiagramLanguages {
		if lang == d {
			return true
		}
	}
	return false
}

// NewRuleset builds the immutable rule bindings: default rules for
// every known token kind, decorated by the addressing stages in fixed
// order. The annotate stage is composed last so it runs first on each
// token and its identifier attribute is already on the token when the
// inner stages copy attributes into their output.
func NewRuleset(cfg Config) *Ruleset {
	rs := defaultRuleset(cfg)
	for _, stage := range []Stage{
		textSpans{},
		verbatimSpans{cfg: cfg},
		directivePatch{},
		annotations{},
	} {
		rs = stage.Decorate(rs)
	}
	return rs
}

// withAttrs copies the token's attributes onto the element, preserving
// order.
func withAttrs(el *markup.Element, tok *token.Token) *markup.Element {
	for _, a := range tok.Attrs {
		el.SetAttr(a.Key, a.Value)
	}
	return el
}

// container returns a rule emitting a bare container element carrying
// the token's attributes.
func container(tag string) Rule {
	return func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		return withAttrs(markup.NewElement(tag), toks[idx]), nil
	}
}

// selfClosing returns a rule emitting a void element.
func selfClosing(tag string) Rule {
	return func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		el := withAttrs(markup.NewElement(tag), toks[idx])
		el.SelfClose = true
		return el, nil
	}
}

// defaultRuleset binds the generic rendering rules. Directive and fence
// rules intentionally do not copy token attributes; the directive patch
// and verbatim stages own that step.
func defaultRuleset(cfg Config) *Ruleset {
	rs := &Ruleset{rules: map[token.Kind]Rule{}}

	rs.rules[token.KindParagraphOpen] = container("p")
	rs.rules[token.KindBlockquoteOpen] = container("blockquote")
	rs.rules[token.KindBulletListOpen] = container("ul")
	rs.rules[token.KindOrderedListOpen] = container("ol")
	rs.rules[token.KindListItemOpen] = container("li")
	rs.rules[token.KindEmphasisOpen] = container("em")
	rs.rules[token.KindStrongOpen] = container("strong")
	rs.rules[token.KindStrikethroughOpen] = container("del")

	rs.rules[token.KindHeadingOpen] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		level := tok.Level
		if level < 1 || level > 6 {
			level = 1
		}
		return withAttrs(markup.NewElement(fmt.Sprintf("h%d", level)), tok), nil
	}

	rs.rules[token.KindLinkOpen] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		el := markup.NewElement("a").SetAttr("href", tok.Info)
		return withAttrs(el, tok), nil
	}

	rs.rules[token.KindImage] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		el := markup.NewElement("img").SetAttr("src", tok.Info).SetAttr("alt", tok.Content)
		el.SelfClose = true
		return withAttrs(el, tok), nil
	}

	rs.rules[token.KindCodeSpan] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		return withAttrs(markup.NewElement("code", markup.Text(tok.Content)), tok), nil
	}

	rs.rules[token.KindText] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		return markup.Text(toks[idx].Content), nil
	}

	// Both break kinds end a visual line in the preview.
	rs.rules[token.KindSoftBreak] = selfClosing("br")
	rs.rules[token.KindHardBreak] = selfClosing("br")
	rs.rules[token.KindThematicBreak] = selfClosing("hr")

	// Inline tokens emit nothing themselves; the renderer walks their
	// children.
	rs.rules[token.KindInline] = func(_ *Pass, _ []*token.Token, _ int) (markup.Node, error) {
		return nil, nil
	}

	rs.rules[token.KindFence] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		if cfg.isDiagram(tok.Info) {
			cls := "diagram " + strings.TrimSpace(strings.ToLower(tok.Info))
			return markup.NewElement("div", markup.Text(tok.Content)).SetAttr("class", cls), nil
		}
		code := markup.NewElement("code", markup.Text(tok.Content))
		if lang := strings.TrimSpace(tok.Info); lang != "" {
			code.SetAttr("class", "language-"+lang)
		}
		return markup.NewElement("pre", code), nil
	}

	rs.rules[token.KindDirective] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		body := markup.NewElement("p", markup.Text(strings.TrimRight(tok.Content, "\n")))
		el := markup.NewElement("div", body)
		el.SetAttr("class", "admonition admonition-"+tok.Info)
		return el, nil
	}

	rs.rules[token.KindDirectiveError] = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		tok := toks[idx]
		body := markup.NewElement("pre", markup.NewElement("code", markup.Text(tok.Content)))
		el := markup.NewElement("div", body)
		el.SetAttr("class", "admonition admonition-error")
		el.SetAttr("data-directive", tok.Info)
		return el, nil
	}

	// Unknown kinds render their raw content untouched.
	rs.fallback = func(_ *Pass, toks []*token.Token, idx int) (markup.Node, error) {
		if toks[idx].Content == "" {
			return nil, nil
		}
		return markup.Text(toks[idx].Content), nil
	}

	return rs
}
