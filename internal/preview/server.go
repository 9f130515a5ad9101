package preview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"time"

	mdpreview "github.com/alnah/go-mdpreview"
)

// Sentinel errors for preview serving.
var (
	ErrReadSource = errors.New("failed to read markdown source")
	ErrServe      = errors.New("preview server failed")
)

// pageTemplate is the browser shell. The body region is replaced on
// every WebSocket render message; elements keep their line-id
// attributes so editor tooling can address them in the live DOM.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: sans-serif; line-height: 1.5; }
pre { background: #f6f8fa; padding: 0.75rem; overflow-x: auto; }
[%s]:hover { background: #fffbdd; }
</style>
</head>
<body>
<main id="preview">
%s
</main>
<script>
(function () {
  var ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "render") {
      document.getElementById("preview").innerHTML = msg.html;
    }
  };
})();
</script>
</body>
</html>`

// Config holds preview server settings.
type Config struct {
	// Addr is the listen address, e.g. "localhost:6419".
	Addr string

	// Path is the Markdown file to preview.
	Path string

	// Debounce coalesces file change bursts; zero selects the default.
	Debounce time.Duration
}

// Server renders one Markdown file and live-reloads connected
// browsers when it changes.
type Server struct {
	cfg      Config
	renderer *mdpreview.Renderer
	hub      *Hub
}

// NewServer creates a preview server around the given renderer.
func NewServer(cfg Config, renderer *mdpreview.Renderer) *Server {
	return &Server{cfg: cfg, renderer: renderer, hub: NewHub()}
}

// render reads and renders the watched file.
func (s *Server) render(ctx context.Context) (*mdpreview.Result, error) {
	source, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	return s.renderer.Render(ctx, mdpreview.Input{Markdown: string(source)})
}

// Run serves the preview until the context is canceled. It starts the
// hub and the file watcher, re-rendering and broadcasting on every
// change.
func (s *Server) Run(ctx context.Context) error {
	watcher, err := NewWatcher(s.cfg.Path, s.cfg.Debounce)
	if err != nil {
		return err
	}
	changes, err := watcher.Start()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	go s.hub.Run()
	defer s.hub.Close()

	go s.watchLoop(ctx, changes)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.hub.ServeWS)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %v", ErrServe, err)
		}
		return nil
	}
}

// watchLoop re-renders on file changes and broadcasts the result.
func (s *Server) watchLoop(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			res, err := s.render(ctx)
			if err != nil {
				s.hub.Broadcast(RenderMessage{Type: "error", Error: err.Error()})
				continue
			}
			s.hub.Broadcast(RenderMessage{Type: "render", HTML: res.HTML, Lines: res.Lines})
		}
	}
}

// handleIndex serves the page shell with the current render inlined.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	res, err := s.render(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, html.EscapeString(s.cfg.Path), mdpreview.LineIDAttribute, res.HTML)
}
