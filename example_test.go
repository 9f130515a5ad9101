package mdpreview_test

import (
	"context"
	"fmt"
	"sort"
	"strings"

	mdpreview "github.com/alnah/go-mdpreview"
)

// Example demonstrates rendering Markdown with a line map. Identifiers
// are random per pass, so the example prints the mapped lines instead.
func Example() {
	r := mdpreview.New()

	result, err := r.Render(context.Background(), mdpreview.Input{
		Markdown: "# Hello\n\nFirst line\nsecond line",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	lines := make([]int, 0, len(result.Lines))
	for line := range result.Lines {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	fmt.Println("mapped lines:", lines)
	fmt.Println("has heading:", strings.Contains(result.HTML, "<h1>"))
	// Output:
	// mapped lines: [0 2 3]
	// has heading: true
}

// Example_chunked demonstrates chunked rendering of a larger document.
func Example_chunked() {
	r := mdpreview.New()

	var b strings.Builder
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "Paragraph %d\n\n", i)
	}

	src := strings.TrimSuffix(b.String(), "\n")
	result, err := r.RenderChunks(context.Background(), src, 4)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("chunks:", len(result.Chunks))
	fmt.Println("mapped lines:", len(result.Lines))
	// Output:
	// chunks: 3
	// mapped lines: 6
}

// Example_directives demonstrates admonition directives.
func Example_directives() {
	r := mdpreview.New(mdpreview.WithDirectiveKinds("note"))

	result, err := r.Render(context.Background(), mdpreview.Input{
		Markdown: "```!note\nRemember this.\n```",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("is admonition:", strings.Contains(result.HTML, `class="admonition admonition-note"`))
	// Output:
	// is admonition: true
}
