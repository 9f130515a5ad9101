// Package render turns a token stream into markup while annotating it
// with line identifiers. A Ruleset maps token kinds to rules producing
// structured output nodes; a fixed chain of decorator stages layers the
// addressing behavior over every rule without touching rule logic.
package render

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alnah/go-mdpreview/internal/markup"
	"github.com/alnah/go-mdpreview/internal/token"
)

// LineIDAttr is the reserved attribute carrying a fragment's line
// identifier. Its name is a compatibility contract with editor-side
// consumers and must never change between releases.
const LineIDAttr = "data-line-id"

// Sentinel errors for rendering.
var (
	ErrUnbalancedTokens = errors.New("unbalanced open/close tokens")
	ErrNotContainer     = errors.New("open token rule did not produce an element")
)

// LineMap maps absolute source line numbers to fragment identifiers.
// One pass writes at most one identifier per line; a later write to the
// same line replaces the earlier one. Block wrappers claim their first
// source line too: a fenced code block contributes an entry for its
// opening fence line (pointing at the wrapper element) in addition to
// the per-content-line entries.
type LineMap map[int]string

// Pass is the context for one rendering invocation. Each pass owns its
// LineMap exclusively, so independent chunks can render concurrently
// without locking.
type Pass struct {
	// StartLine is the absolute line at which this chunk's own content
	// begins within the full document.
	StartLine int

	// ChunkID is the 0-based ordinal of this chunk. Non-initial chunks
	// render with one line of overlapping context from the prior chunk.
	ChunkID int

	// LineMap receives line → identifier entries during the pass.
	LineMap LineMap
}

// NewPass returns a pass with a fresh LineMap.
func NewPass(startLine, chunkID int) *Pass {
	return &Pass{StartLine: startLine, ChunkID: chunkID, LineMap: LineMap{}}
}

// AbsoluteLine converts a chunk-relative line to an absolute one. The
// overlap line of a non-initial chunk repeats the previous chunk's last
// line, so one line is subtracted to keep absolute numbering consistent.
func (p *Pass) AbsoluteLine(relative int) int {
	abs := relative + p.StartLine
	if p.ChunkID != 0 {
		abs--
	}
	return abs
}

// Claim mints a fresh identifier for the chunk-relative line and
// records it in the LineMap. Identifiers are UUIDs, unique within the
// pass; collisions across passes are not defended against.
func (p *Pass) Claim(relative int) string {
	id := uuid.NewString()
	p.LineMap[p.AbsoluteLine(relative)] = id
	return id
}

// Rule produces the markup node for the token at idx. For open kinds
// the returned element becomes the enclosing container until the
// matching close token. A nil node emits nothing.
type Rule func(p *Pass, toks []*token.Token, idx int) (markup.Node, error)

// Ruleset is an immutable set of render-rule bindings. It is built once
// at construction and never mutated afterward, so a single Ruleset can
// serve any number of concurrent passes.
type Ruleset struct {
	rules    map[token.Kind]Rule
	fallback Rule
}

func (rs *Ruleset) clone() *Ruleset {
	out := &Ruleset{rules: make(map[token.Kind]Rule, len(rs.rules)), fallback: rs.fallback}
	for k, r := range rs.rules {
		out.rules[k] = r
	}
	return out
}

func (rs *Ruleset) lookup(kind token.Kind) Rule {
	if r, ok := rs.rules[kind]; ok {
		return r
	}
	return rs.fallback
}

// dispatch invokes the rule bound to the token's kind, falling back to
// generic default rendering for unknown kinds.
func (rs *Ruleset) dispatch(p *Pass, toks []*token.Token, idx int) (markup.Node, error) {
	return rs.lookup(toks[idx].Kind)(p, toks, idx)
}

// Render walks the token stream and returns the serialized markup.
// Rendering is strictly additive over the rules' own output: the same
// stream renders to the same element shape whether or not a pass has
// claimed any lines.
func (rs *Ruleset) Render(p *Pass, toks []*token.Token) (string, error) {
	root := &markup.Element{Tag: "#fragment"}
	if err := rs.renderStream(p, toks, root); err != nil {
		return "", err
	}
	return markup.Render(root.Children...), nil
}

// renderStream renders toks into parent, maintaining an element stack
// for open/close pairs. Inline tokens recurse into their children.
func (rs *Ruleset) renderStream(p *Pass, toks []*token.Token, parent *markup.Element) error {
	stack := []*markup.Element{parent}

	for idx, tok := range toks {
		if tok.Kind.IsClose() || tok.Kind.IsInlineClose() {
			if len(stack) == 1 {
				return fmt.Errorf("%w: stray %s", ErrUnbalancedTokens, tok.Kind)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		node, err := rs.dispatch(p, toks, idx)
		if err != nil {
			return err
		}
		top := stack[len(stack)-1]
		if node != nil {
			top.Append(node)
		}

		if tok.Kind.IsOpen() || tok.Kind.IsInlineOpen() {
			el, ok := node.(*markup.Element)
			if !ok {
				return fmt.Errorf("%w: %s", ErrNotContainer, tok.Kind)
			}
			stack = append(stack, el)
			continue
		}

		if tok.Kind == token.KindInline {
			if err := rs.renderStream(p, tok.Children, top); err != nil {
				return err
			}
		}
	}

	if len(stack) != 1 {
		return fmt.Errorf("%w: %d containers left open", ErrUnbalancedTokens, len(stack)-1)
	}
	return nil
}
