package parse

import (
	"testing"

	"github.com/alnah/go-mdpreview/internal/token"
)

func kinds(toks []*token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, toks []*token.Token, want []token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token kinds = %v, want %v", got, want)
		}
	}
}

func assertSpan(t *testing.T, tok *token.Token, start, end int) {
	t.Helper()
	if tok.Span == nil {
		t.Fatalf("%s token has nil span, want [%d, %d)", tok.Kind, start, end)
	}
	if tok.Span.Start != start || tok.Span.End != end {
		t.Fatalf("%s span = [%d, %d), want [%d, %d)",
			tok.Kind, tok.Span.Start, tok.Span.End, start, end)
	}
}

func TestTokenize_Paragraph(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("Line1\nLine2")

	assertKinds(t, toks, []token.Kind{
		token.KindParagraphOpen, token.KindInline, token.KindParagraphClose,
	})
	assertSpan(t, toks[0], 0, 2)

	children := toks[1].Children
	assertKinds(t, children, []token.Kind{
		token.KindText, token.KindSoftBreak, token.KindText,
	})
	if children[0].Content != "Line1" || children[2].Content != "Line2" {
		t.Errorf("text contents = %q, %q", children[0].Content, children[2].Content)
	}
}

func TestTokenize_ParagraphOffset(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("first\n\nthird line here")

	assertKinds(t, toks, []token.Kind{
		token.KindParagraphOpen, token.KindInline, token.KindParagraphClose,
		token.KindParagraphOpen, token.KindInline, token.KindParagraphClose,
	})
	assertSpan(t, toks[0], 0, 1)
	assertSpan(t, toks[3], 2, 3)
}

func TestTokenize_HardBreak(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("one  \ntwo")

	children := toks[1].Children
	assertKinds(t, children, []token.Kind{
		token.KindText, token.KindHardBreak, token.KindText,
	})
}

func TestTokenize_Heading(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("## Title")

	assertKinds(t, toks, []token.Kind{
		token.KindHeadingOpen, token.KindInline, token.KindHeadingClose,
	})
	if toks[0].Level != 2 {
		t.Errorf("heading level = %d, want 2", toks[0].Level)
	}
	assertSpan(t, toks[0], 0, 1)
	if toks[1].Children[0].Content != "Title" {
		t.Errorf("heading text = %q", toks[1].Children[0].Content)
	}
}

func TestTokenize_Fence(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("```go\na\nb\n```")

	assertKinds(t, toks, []token.Kind{token.KindFence})
	fence := toks[0]
	if fence.Info != "go" {
		t.Errorf("fence info = %q, want go", fence.Info)
	}
	if fence.Content != "a\nb\n" {
		t.Errorf("fence content = %q", fence.Content)
	}
	// Span covers both delimiter lines.
	assertSpan(t, fence, 0, 4)
}

func TestTokenize_FenceAfterParagraph(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("intro\n\n```\nbody\n```")

	fence := toks[len(toks)-1]
	if fence.Kind != token.KindFence {
		t.Fatalf("last token = %s, want fence", fence.Kind)
	}
	assertSpan(t, fence, 2, 5)
	if fence.Content != "body\n" {
		t.Errorf("fence content = %q", fence.Content)
	}
}

func TestTokenize_Directives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantKind token.Kind
		wantInfo string
	}{
		{
			name:     "registered kind",
			source:   "```!warning\ncareful\n```",
			wantKind: token.KindDirective,
			wantInfo: "warning",
		},
		{
			name:     "case folded",
			source:   "```!Warning\ncareful\n```",
			wantKind: token.KindDirective,
			wantInfo: "warning",
		},
		{
			name:     "unknown kind falls back",
			source:   "```!bogus\ncareful\n```",
			wantKind: token.KindDirectiveError,
			wantInfo: "bogus",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tk := NewTokenizer([]string{"warning", "note"})
			toks := tk.Tokenize(tt.source)

			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1: %v", len(toks), kinds(toks))
			}
			if toks[0].Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", toks[0].Kind, tt.wantKind)
			}
			if toks[0].Info != tt.wantInfo {
				t.Errorf("info = %q, want %q", toks[0].Info, tt.wantInfo)
			}
			if toks[0].Content != "careful\n" {
				t.Errorf("content = %q", toks[0].Content)
			}
		})
	}
}

func TestTokenize_TightList(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("- alpha\n- beta")

	assertKinds(t, toks, []token.Kind{
		token.KindBulletListOpen,
		token.KindListItemOpen, token.KindInline, token.KindListItemClose,
		token.KindListItemOpen, token.KindInline, token.KindListItemClose,
		token.KindBulletListClose,
	})
	assertSpan(t, toks[0], 0, 2)
	assertSpan(t, toks[1], 0, 1)
	assertSpan(t, toks[4], 1, 2)
	// Tight-item inline tokens carry the item's span so their text runs
	// become claimable.
	assertSpan(t, toks[2], 0, 1)
}

func TestTokenize_OrderedList(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("1. one\n2. two")

	if toks[0].Kind != token.KindOrderedListOpen {
		t.Fatalf("first token = %s, want ordered_list_open", toks[0].Kind)
	}
	if toks[len(toks)-1].Kind != token.KindOrderedListClose {
		t.Fatalf("last token = %s, want ordered_list_close", toks[len(toks)-1].Kind)
	}
}

func TestTokenize_Blockquote(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("> quoted text")

	assertKinds(t, toks, []token.Kind{
		token.KindBlockquoteOpen,
		token.KindParagraphOpen, token.KindInline, token.KindParagraphClose,
		token.KindBlockquoteClose,
	})
	assertSpan(t, toks[0], 0, 1)
}

func TestTokenize_ThematicBreak(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("---")

	assertKinds(t, toks, []token.Kind{token.KindThematicBreak})
}

func TestTokenize_InlineMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []token.Kind
	}{
		{
			name:   "emphasis",
			source: "*soft*",
			want:   []token.Kind{token.KindEmphasisOpen, token.KindText, token.KindEmphasisClose},
		},
		{
			name:   "strong",
			source: "**loud**",
			want:   []token.Kind{token.KindStrongOpen, token.KindText, token.KindStrongClose},
		},
		{
			name:   "strikethrough",
			source: "~~gone~~",
			want:   []token.Kind{token.KindStrikethroughOpen, token.KindText, token.KindStrikethroughClose},
		},
		{
			name:   "code span",
			source: "`x := 1`",
			want:   []token.Kind{token.KindCodeSpan},
		},
		{
			name:   "link",
			source: "[label](https://example.com)",
			want:   []token.Kind{token.KindLinkOpen, token.KindText, token.KindLinkClose},
		},
		{
			name:   "image",
			source: "![alt](pic.png)",
			want:   []token.Kind{token.KindImage},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tk := NewTokenizer(nil)
			toks := tk.Tokenize(tt.source)
			if len(toks) != 3 || toks[1].Kind != token.KindInline {
				t.Fatalf("unexpected block structure: %v", kinds(toks))
			}
			assertKinds(t, toks[1].Children, tt.want)
		})
	}
}

func TestTokenize_LinkDestination(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("[label](https://example.com)")

	open := toks[1].Children[0]
	if open.Info != "https://example.com" {
		t.Errorf("link destination = %q", open.Info)
	}
}

func TestTokenize_ImageAttributes(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("![a cat](cat.png)")

	img := toks[1].Children[0]
	if img.Info != "cat.png" {
		t.Errorf("image source = %q", img.Info)
	}
	if img.Content != "a cat" {
		t.Errorf("image alt = %q", img.Content)
	}
}

func TestTokenize_CodeSpanContent(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("before `x := 1` after")

	var code *token.Token
	for _, c := range toks[1].Children {
		if c.Kind == token.KindCodeSpan {
			code = c
		}
	}
	if code == nil {
		t.Fatalf("no code span token in %v", kinds(toks[1].Children))
	}
	if code.Content != "x := 1" {
		t.Errorf("code span content = %q", code.Content)
	}
}

func TestTokenize_IndentedCodeHasNoSpan(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	toks := tk.Tokenize("    indented code")

	assertKinds(t, toks, []token.Kind{token.KindFence})
	if toks[0].Span != nil {
		t.Errorf("indented code span = %v, want nil", toks[0].Span)
	}
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer(nil)
	if toks := tk.Tokenize(""); len(toks) != 0 {
		t.Errorf("empty source produced %v", kinds(toks))
	}
}

func TestLineIndex(t *testing.T) {
	t.Parallel()

	li := newLineIndex([]byte("ab\ncd\n\nef"))

	tests := []struct {
		offset int
		want   int
	}{
		{offset: 0, want: 0},
		{offset: 2, want: 0},
		{offset: 3, want: 1},
		{offset: 5, want: 1},
		{offset: 6, want: 2},
		{offset: 7, want: 3},
		{offset: 8, want: 3},
	}

	for _, tt := range tests {
		tt := tt
		if got := li.lineAt(tt.offset); got != tt.want {
			t.Errorf("lineAt(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
