//go:build integration

package mdpreview

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpreview/internal/fileutil"
)

// connectBrowser launches headless Chrome the same way CI environments
// expect: a pre-installed binary via ROD_BROWSER_BIN, sandbox disabled
// inside containers.
func connectBrowser(t *testing.T) *rod.Browser {
	t.Helper()

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		t.Fatalf("launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		t.Fatalf("connecting to browser: %v", err)
	}
	t.Cleanup(func() { _ = browser.Close() })
	return browser
}

// TestLineMap_DOMAddressable_Integration loads a rendered document in
// headless Chrome and verifies every line map identifier resolves to
// exactly one element in the live DOM.
func TestLineMap_DOMAddressable_Integration(t *testing.T) {
	t.Parallel()

	src := `# Heading

First line
second line

- item one
- item two

` + "```go\nx := 1\ny := 2\n```\n"

	r := New()
	res, err := r.Render(context.Background(), Input{Markdown: src})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(res.Lines) == 0 {
		t.Fatalf("empty line map")
	}

	page := `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body>` +
		res.HTML + `</body></html>`
	path, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		t.Fatalf("writing page: %v", err)
	}
	defer cleanup()

	browser := connectBrowser(t)
	p, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		t.Fatalf("opening page: %v", err)
	}
	defer p.Close()
	if err := p.WaitLoad(); err != nil {
		t.Fatalf("loading page: %v", err)
	}

	for line, id := range res.Lines {
		selector := fmt.Sprintf(`[%s=%q]`, LineIDAttribute, id)
		elements, err := p.Elements(selector)
		if err != nil {
			t.Fatalf("querying %s: %v", selector, err)
		}
		if len(elements) != 1 {
			t.Errorf("line %d: %d elements match %s, want 1", line, len(elements), selector)
		}
	}
}
