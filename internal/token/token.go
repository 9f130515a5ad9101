// Package token defines the linear token stream produced by the parse
// stage and consumed by the renderer. Tokens are a flat sequence:
// containers appear as matching open/close pairs, inline content hangs
// off a single Inline token between them.
package token

import "fmt"

// Kind identifies what a token represents.
type Kind int

// Token kinds. Open/Close pairs bracket block containers; Inline carries
// the children of a paragraph or heading.
const (
	KindNone Kind = iota

	KindParagraphOpen
	KindParagraphClose
	KindHeadingOpen
	KindHeadingClose
	KindBlockquoteOpen
	KindBlockquoteClose
	KindBulletListOpen
	KindBulletListClose
	KindOrderedListOpen
	KindOrderedListClose
	KindListItemOpen
	KindListItemClose

	KindInline
	KindText
	KindCodeSpan
	KindEmphasisOpen
	KindEmphasisClose
	KindStrongOpen
	KindStrongClose
	KindStrikethroughOpen
	KindStrikethroughClose
	KindLinkOpen
	KindLinkClose
	KindImage
	KindSoftBreak
	KindHardBreak

	KindFence
	KindThematicBreak
	KindDirective
	KindDirectiveError
)

var kindNames = map[Kind]string{
	KindNone:               "none",
	KindParagraphOpen:      "paragraph_open",
	KindParagraphClose:     "paragraph_close",
	KindHeadingOpen:        "heading_open",
	KindHeadingClose:       "heading_close",
	KindBlockquoteOpen:     "blockquote_open",
	KindBlockquoteClose:    "blockquote_close",
	KindBulletListOpen:     "bullet_list_open",
	KindBulletListClose:    "bullet_list_close",
	KindOrderedListOpen:    "ordered_list_open",
	KindOrderedListClose:   "ordered_list_close",
	KindListItemOpen:       "list_item_open",
	KindListItemClose:      "list_item_close",
	KindInline:             "inline",
	KindText:               "text",
	KindCodeSpan:           "code_span",
	KindEmphasisOpen:       "emphasis_open",
	KindEmphasisClose:      "emphasis_close",
	KindStrongOpen:         "strong_open",
	KindStrongClose:        "strong_close",
	KindStrikethroughOpen:  "strikethrough_open",
	KindStrikethroughClose: "strikethrough_close",
	KindLinkOpen:           "link_open",
	KindLinkClose:          "link_close",
	KindImage:              "image",
	KindSoftBreak:          "soft_break",
	KindHardBreak:          "hard_break",
	KindFence:              "fence",
	KindThematicBreak:      "thematic_break",
	KindDirective:          "directive",
	KindDirectiveError:     "directive_error",
}

// String returns the token kind name used in debug output.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsOpen reports whether the kind opens a block container.
func (k Kind) IsOpen() bool {
	switch k {
	case KindParagraphOpen, KindHeadingOpen, KindBlockquoteOpen,
		KindBulletListOpen, KindOrderedListOpen, KindListItemOpen:
		return true
	}
	return false
}

// IsClose reports whether the kind closes a block container.
func (k Kind) IsClose() bool {
	switch k {
	case KindParagraphClose, KindHeadingClose, KindBlockquoteClose,
		KindBulletListClose, KindOrderedListClose, KindListItemClose:
		return true
	}
	return false
}

// IsInlineOpen reports whether the kind opens an inline container
// inside an Inline token's children.
func (k Kind) IsInlineOpen() bool {
	switch k {
	case KindEmphasisOpen, KindStrongOpen, KindStrikethroughOpen, KindLinkOpen:
		return true
	}
	return false
}

// IsInlineClose reports whether the kind closes an inline container.
func (k Kind) IsInlineClose() bool {
	switch k {
	case KindEmphasisClose, KindStrongClose, KindStrikethroughClose, KindLinkClose:
		return true
	}
	return false
}

// IsBreak reports whether the kind ends a visual line inside a
// paragraph or heading.
func (k Kind) IsBreak() bool {
	return k == KindSoftBreak || k == KindHardBreak
}

// Span is a half-open [Start, End) line range in source coordinates,
// relative to the start of the rendered chunk.
type Span struct {
	Start int
	End   int
}

// Validate panics on an empty or inverted span. Such spans can only be
// produced by a parser bug, never by document content.
func (s Span) Validate() {
	if s.End <= s.Start {
		panic(fmt.Sprintf("token: invalid span [%d, %d)", s.Start, s.End))
	}
}

// Attribute is one key/value pair in a token's ordered attribute list.
type Attribute struct {
	Key   string
	Value string
}

// Token is one node of the post-parse stream.
type Token struct {
	Kind     Kind
	Span     *Span       // nil when the source position is unknown
	Children []*Token    // populated only on Inline tokens
	Attrs    []Attribute // ordered, rendered in insertion order

	// Content holds raw text for Text, CodeSpan, Fence, Directive and
	// DirectiveError tokens.
	Content string

	// Info carries per-kind metadata: fence language, directive kind,
	// link destination, image source.
	Info string

	// Level is the heading level for HeadingOpen/HeadingClose.
	Level int
}

// SetAttr sets key to value, replacing an existing entry in place so
// attribute order stays stable across repeated writes.
func (t *Token) SetAttr(key, value string) {
	for i := range t.Attrs {
		if t.Attrs[i].Key == key {
			t.Attrs[i].Value = value
			return
		}
	}
	t.Attrs = append(t.Attrs, Attribute{Key: key, Value: value})
}

// Attr returns the value for key and whether it is present.
func (t *Token) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
