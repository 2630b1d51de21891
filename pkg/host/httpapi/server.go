// Package httpapi exposes a [host.Bridge] and [host.Surface] over HTTP so a
// browser or a dashboard adapter can act as the host.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// maxBody caps request bodies.
const maxBody = 32 << 20

// InteractionsPath is where the chart script posts filter events.
const InteractionsPath = "/interactions"

// Bridge is the host side the server feeds.
type Bridge interface {
	Publish(ctx context.Context, msg *dscc.Message)
	Emit(ctx context.Context, evt dscc.FilterEvent) error
	Retained() *dscc.FilterSelection
}

// Store holds the artifacts of the last draw.
type Store interface {
	Get(format string) ([]byte, bool)
	Version() uint64
	Watch(ctx context.Context) <-chan uint64
}

// Resizer accepts container size changes.
type Resizer interface {
	Resize(width, height float64) error
	Size() (width, height float64)
}

// ResizePath is where the index page reports the container size.
const ResizePath = "/resize"

var contentTypes = map[string]string{
	"svg":  "image/svg+xml",
	"json": "application/json",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// Server implements the HTTP endpoints.
type Server struct {
	Bridge  Bridge
	Store   Store
	Resizer Resizer
	Metrics http.Handler
	Logger  *log.Logger
}

// Option configures the handler built by [NewHandler].
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// WithResizer mounts POST /resize, which forwards container sizes to r.
func WithResizer(r Resizer) Option {
	return func(s *Server) { s.Resizer = r }
}

// WithLogger logs every request at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.Logger = l }
}

// NewHandler returns the router for bridge and store.
func NewHandler(bridge Bridge, store Store, opts ...Option) http.Handler {
	s := &Server{Bridge: bridge, Store: store}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.Logger != nil {
		r.Use(s.logRequests)
	}

	r.Get("/", s.Index)
	r.Get("/health", s.Health)
	r.Post("/data", s.PostData)
	r.Get("/chart.{format}", s.GetChart)
	r.Post(InteractionsPath, s.PostInteraction)
	r.Get("/selection", s.GetSelection)
	r.Get("/events", s.SubscribeEvents)
	if s.Resizer != nil {
		r.Post(ResizePath, s.PostResize)
	}
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status())
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": s.Store.Version()})
}

// PostData handles POST /data: the body is a data snapshot.
func (s *Server) PostData(w http.ResponseWriter, r *http.Request) {
	msg, err := dscc.Decode(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.Bridge.Publish(r.Context(), msg)
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": len(msg.Records())})
}

// GetChart handles GET /chart.{format}.
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	ct, ok := contentTypes[format]
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}
	data, ok := s.Store.Get(format)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no %s chart drawn yet", format))
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", fmt.Sprintf(`"v%d"`, s.Store.Version()))
	w.Write(data)
}

// PostInteraction handles POST /interactions: the body is a filter event.
func (s *Server) PostInteraction(w http.ResponseWriter, r *http.Request) {
	var evt dscc.FilterEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&evt); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode filter event"))
		return
	}
	if err := s.Bridge.Emit(r.Context(), evt); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetSelection handles GET /selection and returns the retained selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel := s.Bridge.Retained()
	if sel == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SubscribeEvents handles GET /events (SSE). A "draw" event carrying the
// surface version is sent after every completed draw.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	versions := s.Store.Watch(r.Context())
	fmt.Fprintf(w, "event: ping\ndata: %d\n\n", s.Store.Version())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, ok := <-versions:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: draw\ndata: %d\n\n", v)
			flusher.Flush()
		}
	}
}

type size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PostResize handles POST /resize with a {"width", "height"} body.
func (s *Server) PostResize(w http.ResponseWriter, r *http.Request) {
	var req size
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode size"))
		return
	}
	if err := s.Resizer.Resize(req.Width, req.Height); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	width, height := s.Resizer.Size()
	writeJSON(w, http.StatusAccepted, size{Width: width, Height: height})
}

// Index handles GET / with a page that embeds the chart and reloads it on
// every draw.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexHTML)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInvalidInput
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": strings.TrimSpace(errors.UserMessage(err)),
	})
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sunburst</title>
<style>html,body{margin:0;height:100%}object{width:100%;height:100%;border:0}</style>
</head>
<body>
<object id="chart" type="image/svg+xml" data="/chart.svg"></object>
<script>
  const chart = document.getElementById('chart');
  const events = new EventSource('/events');
  events.addEventListener('draw', (e) => {
    chart.data = '/chart.svg?v=' + e.data;
  });
  const report = () => fetch('/resize', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({width: window.innerWidth, height: window.innerHeight}),
  }).catch(() => {});
  window.addEventListener('resize', report);
  report();
</script>
</body>
</html>
`
