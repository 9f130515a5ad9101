package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/preview"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs      = errors.New("usage: mdpreview [flags] <input.md>")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrWriteOutput      = errors.New("failed to write output")
)

// run dispatches to one-shot rendering, watch mode, or the preview
// server.
func run(ctx context.Context, flags *cliFlags, args []string) error {
	if len(args) != 1 {
		return ErrInvalidArgs
	}
	inputPath := args[0]
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	renderer := buildRenderer(flags, cfg)

	if flags.serve {
		addr := cfg.Server.Addr
		if flags.addr != "" {
			addr = flags.addr
		}
		if flags.verbose {
			fmt.Fprintf(os.Stderr, "Serving %s on http://%s\n", inputPath, addr)
		}
		server := preview.NewServer(preview.Config{
			Addr:     addr,
			Path:     inputPath,
			Debounce: time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
		}, renderer)
		err := server.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	if err := renderOnce(ctx, renderer, inputPath, flags); err != nil {
		return err
	}

	if !flags.watch {
		return nil
	}
	return watchLoop(ctx, renderer, inputPath, flags, cfg)
}

// buildRenderer assembles renderer options from flags and config.
func buildRenderer(flags *cliFlags, cfg *config.Config) *mdpreview.Renderer {
	var opts []mdpreview.Option
	if len(cfg.Render.DirectiveKinds) > 0 {
		opts = append(opts, mdpreview.WithDirectiveKinds(cfg.Render.DirectiveKinds...))
	}
	if len(cfg.Render.DiagramLanguages) > 0 {
		opts = append(opts, mdpreview.WithDiagramLanguages(cfg.Render.DiagramLanguages...))
	}

	style := cfg.Render.HighlightStyle
	if flags.style != "" {
		style = flags.style
	}
	highlighting := cfg.Render.Highlighting == nil || *cfg.Render.Highlighting
	if flags.noHighlight {
		highlighting = false
	}
	if highlighting {
		opts = append(opts, mdpreview.WithSyntaxHighlighting(style))
	} else {
		opts = append(opts, mdpreview.WithoutSyntaxHighlighting())
	}

	return mdpreview.New(opts...)
}

// renderOnce renders the file and writes the HTML and optional line
// map to their destinations.
func renderOnce(ctx context.Context, renderer *mdpreview.Renderer, inputPath string, flags *cliFlags) error {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	result, err := renderer.Render(ctx, mdpreview.Input{Markdown: string(content)})
	if err != nil {
		return err
	}

	if flags.out == "" {
		fmt.Println(result.HTML)
	} else if err := os.WriteFile(flags.out, []byte(result.HTML), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if flags.lineMapPath != "" {
		data, err := json.MarshalIndent(result.Lines, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if err := os.WriteFile(flags.lineMapPath, data, 0o644); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Rendered %s (%d mapped lines)\n", inputPath, len(result.Lines))
	}
	return nil
}

// watchLoop re-renders on every debounced change until the context is
// canceled.
func watchLoop(ctx context.Context, renderer *mdpreview.Renderer, inputPath string, flags *cliFlags, cfg *config.Config) error {
	watcher, err := preview.NewWatcher(inputPath, time.Duration(cfg.Watch.DebounceMillis)*time.Millisecond)
	if err != nil {
		return err
	}
	changes, err := watcher.Start()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := renderOnce(ctx, renderer, inputPath, flags); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

// validateMarkdownExtension checks the input file extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}
