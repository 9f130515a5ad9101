// Package mdpreview renders Markdown to HTML while building a line map
// that ties absolute source line numbers to identifiers carried by the
// rendered fragments. A host editor uses the map for scroll-sync,
// click-to-source, line highlighting, and keying per-line transform
// caches.
//
// # Quick Start
//
// Create a renderer and render a document:
//
//	r := mdpreview.New()
//	result, err := r.Render(ctx, mdpreview.Input{Markdown: "# Hello\n\nWorld"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//	for line, id := range result.Lines {
//	    fmt.Printf("line %d -> %s\n", line, id)
//	}
//
// Every address-relevant element in the HTML carries the reserved
// attribute mdpreview.LineIDAttribute whose value appears in
// result.Lines under the element's source line.
//
// # Rendering Pipeline
//
// Rendering follows these stages:
//
//  1. Line-ending normalization (line numbering depends on it)
//  2. Markdown parsing via goldmark, flattened to a token stream
//  3. Token rendering through an immutable ruleset decorated with the
//     addressing stages (text spans, verbatim line spans, directive
//     attribute patching, line annotation)
//
// # Chunked Rendering
//
// Large documents render as independent chunks, each with its own pass
// context and line map, merged afterward:
//
//	chunked, err := r.RenderChunks(ctx, source, 200)
//
// Non-initial chunks carry one line of overlapping context from their
// predecessor; absolute line numbering accounts for it.
//
// # Directives and Diagrams
//
// Fenced blocks whose info string starts with "!" render as directive
// admonitions (```!warning). Unknown directive kinds fall back to an
// error block that still carries its line identifier. Fences in a
// registered diagram language (mermaid by default) render as diagram
// containers for client-side hydration.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r := mdpreview.New(
//	    mdpreview.WithDirectiveKinds("note", "warning"),
//	    mdpreview.WithDiagramLanguages("mermaid", "pikchr"),
//	    mdpreview.WithSyntaxHighlighting("monokai"),
//	)
package mdpreview
