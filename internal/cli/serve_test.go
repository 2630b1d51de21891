package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/host"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

func decodeSnapshot(t *testing.T, s string) *dscc.Message {
	t.Helper()
	msg, err := dscc.Decode(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return msg
}

func TestDrawToSurface(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	surface := host.NewSurface()
	opts := pipeline.Options{Formats: []string{"svg", "json"}, Endpoint: "/interactions"}

	err := drawToSurface(context.Background(), runner, surface, decodeSnapshot(t, salesSnapshot), opts, logger)
	if err != nil {
		t.Fatalf("drawToSurface: %v", err)
	}
	if surface.Version() != 1 {
		t.Errorf("Version = %d, want 1", surface.Version())
	}
	if _, ok := surface.Get("json"); !ok {
		t.Error("surface has no json artifact")
	}
	if !strings.Contains(buf.String(), "Drew chart") {
		t.Errorf("log = %q, want a draw line", buf.String())
	}

	// A broken snapshot still replaces the surface, with a panel.
	empty := `{"tables": {"DEFAULT": []}, "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]}}`
	if err := drawToSurface(context.Background(), runner, surface, decodeSnapshot(t, empty), opts, logger); err != nil {
		t.Fatalf("drawToSurface: %v", err)
	}
	if surface.Version() != 2 {
		t.Errorf("Version = %d, want 2", surface.Version())
	}
	if !strings.Contains(buf.String(), "Drew error panel") {
		t.Errorf("log = %q, want a panel line", buf.String())
	}
}

func TestDrawToSurfaceLocalError(t *testing.T) {
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	surface := host.NewSurface()
	empty := `{"tables": {"DEFAULT": []}, "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]}}`

	err := drawToSurface(context.Background(), runner, surface, decodeSnapshot(t, empty),
		pipeline.Options{Local: true}, log.New(&bytes.Buffer{}))
	if err == nil {
		t.Fatal("local draw of an empty snapshot should fail")
	}
	if surface.Version() != 0 {
		t.Errorf("Version = %d, want 0 after a failed draw", surface.Version())
	}
}

func TestSelectionLabel(t *testing.T) {
	evt := dscc.NewFilterEvent("f", []string{"a", "b"}, []dscc.Value{dscc.String("EU"), dscc.String("Books")})
	if got := selectionLabel(evt); got != "EU > Books" {
		t.Errorf("selectionLabel = %q, want EU > Books", got)
	}
	if got := selectionLabel(dscc.NewResetEvent("f")); got != "-" {
		t.Errorf("selectionLabel(reset) = %q, want -", got)
	}
}

func TestBaseURL(t *testing.T) {
	t.Setenv(host.LocalHostEnv, "")
	tests := []struct {
		addr, want string
	}{
		{"localhost:8080", "http://localhost:8080"},
		{":9000", "http://localhost:9000"},
		{"0.0.0.0:80", "http://localhost:80"},
		{"charts.internal:8443", "http://charts.internal:8443"},
	}
	for _, tt := range tests {
		if got := baseURL(tt.addr); got != tt.want {
			t.Errorf("baseURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestChanged(t *testing.T) {
	const path = "/data/sales.json"
	tests := []struct {
		evt  fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := changed(tt.evt, path); got != tt.want {
			t.Errorf("changed(%v) = %v, want %v", tt.evt, got, tt.want)
		}
	}
}
