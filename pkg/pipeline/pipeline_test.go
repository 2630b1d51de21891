package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
)

const sampleSnapshot = `{
  "tables": {"DEFAULT": [
    {"dimension": ["A", "X"], "metric": [10]},
    {"dimension": ["A", "Y"], "metric": [5]},
    {"dimension": ["B", "Z"], "metric": [7]}
  ]},
  "fields": {
    "dimension": [{"id": "qt_region", "name": "Region"}, {"id": "qt_city", "name": "City"}],
    "metric": [{"id": "qt_sales", "name": "Sales"}]
  },
  "style": {"instanceID": {"value": "test"}},
  "interactions": {"sunburstFilter": {"value": {"type": "FILTER", "data": {"concepts": ["qt_region"], "values": [["A"]]}}}}
}`

func sample(t *testing.T) *dscc.Message {
	t.Helper()
	m, err := dscc.Decode(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return m
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Formats: []string{"svg", "json", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.InteractionID != "sunburstFilter" {
		t.Errorf("InteractionID = %q, want sunburstFilter", opts.InteractionID)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats = %v, want duplicates removed", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Width = 0
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Width != 0 {
		t.Errorf("second call changed options: width=%g err=%v", opts.Width, err)
	}

	bad := Options{Width: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative width error = %v, want INVALID_INPUT", err)
	}
	bad = Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		w, h    float64
		wantErr bool
	}{
		{800, 600, false},
		{300, 100, false},
		{100, 300, false},
		{299, 299, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		err := CheckSize(tt.w, tt.h)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckSize(%g, %g) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
		}
		if err != nil && errors.KindOf(err) != errors.KindSize {
			t.Errorf("CheckSize(%g, %g) kind = %v, want size", tt.w, tt.h, errors.KindOf(err))
		}
	}
}

func TestBuildConfig(t *testing.T) {
	msg := sample(t)

	cfg := BuildConfig(msg, Options{Width: 800, Height: 600, InteractionID: DefaultInteractionID})
	if !cfg.FilterEnabled || !cfg.FilterActive {
		t.Errorf("FilterEnabled/Active = %v/%v, want true/true", cfg.FilterEnabled, cfg.FilterActive)
	}
	if cfg.AnimationDuration != 0 {
		t.Errorf("AnimationDuration = %v, want 0 with filtering enabled", cfg.AnimationDuration)
	}
	if len(cfg.Selection) != 1 || cfg.Selection[0] != dscc.String("A") {
		t.Errorf("Selection = %v, want [A]", cfg.Selection)
	}
	if cfg.InstanceID != "test" {
		t.Errorf("InstanceID = %q, want test", cfg.InstanceID)
	}
	if strings.Join(cfg.DimensionIDs, ",") != "qt_region,qt_city" {
		t.Errorf("DimensionIDs = %v", cfg.DimensionIDs)
	}

	local := BuildConfig(msg, Options{Width: 800, Height: 600, InteractionID: DefaultInteractionID, Local: true})
	if local.FilterEnabled || local.FilterActive {
		t.Error("local mode should disable filtering")
	}
	if local.AnimationDuration != AnimationDuration {
		t.Errorf("local AnimationDuration = %v, want %v", local.AnimationDuration, AnimationDuration)
	}
}

func TestDraw(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Draw(context.Background(), sample(t), Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.Panel != nil {
		t.Fatalf("unexpected panel: %+v", res.Panel)
	}

	if res.Stats.Rows != 3 {
		t.Errorf("Rows = %d, want 3", res.Stats.Rows)
	}
	if res.Stats.Arcs != 5 {
		t.Errorf("Arcs = %d, want 5", res.Stats.Arcs)
	}
	if res.Stats.Depth != 2 {
		t.Errorf("Depth = %d, want 2", res.Stats.Depth)
	}
	if got := res.Hierarchy.Find(dscc.String("A")).Value; got != 15 {
		t.Errorf("A = %g, want 15", got)
	}

	svg := string(res.Artifacts["svg"])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, `id="tooltip"`) {
		t.Error("svg artifact should contain the chart and tooltip")
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"arcs"`) {
		t.Error("json artifact should contain arcs")
	}
}

func TestDrawPanels(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		opts     Options
		kind     errors.Kind
		title    string
	}{
		{
			name:     "too small",
			snapshot: sampleSnapshot,
			opts:     Options{Width: 200, Height: 250},
			kind:     errors.KindSize,
			title:    errors.TitleResize,
		},
		{
			name:     "empty table",
			snapshot: `{"tables": {"DEFAULT": []}, "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]}}`,
			kind:     errors.KindData,
			title:    errors.TitleLoading,
		},
		{
			name:     "malformed row",
			snapshot: `{"tables": {"DEFAULT": [{"dimension": ["A", "B"], "metric": [1]}]}, "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]}}`,
			kind:     errors.KindData,
			title:    errors.TitleLoading,
		},
		{
			name:     "no dimensions",
			snapshot: `{"tables": {"DEFAULT": [{"dimension": [], "metric": [1]}]}, "fields": {"dimension": [], "metric": [{"id": "m", "name": "Sales"}]}}`,
			kind:     errors.KindGeneral,
			title:    errors.TitleError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := dscc.Decode(strings.NewReader(tt.snapshot))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			tt.opts.Formats = []string{"svg", "json"}

			res, err := quietRunner(nil).Draw(context.Background(), msg, tt.opts)
			if err != nil {
				t.Fatalf("Draw returned error %v, want panel", err)
			}
			if res.Panel == nil {
				t.Fatal("Panel = nil, want error panel")
			}
			if res.Panel.Kind != tt.kind {
				t.Errorf("Panel.Kind = %v, want %v", res.Panel.Kind, tt.kind)
			}
			if res.Panel.Title != tt.title {
				t.Errorf("Panel.Title = %q, want %q", res.Panel.Title, tt.title)
			}
			if !strings.Contains(string(res.Artifacts["svg"]), `id="error"`) {
				t.Error("svg artifact should be the error panel")
			}
			if !strings.Contains(string(res.Artifacts["json"]), tt.kind.String()) {
				t.Errorf("json artifact should name the kind %q", tt.kind)
			}
		})
	}
}

func TestDrawNonFiniteMetric(t *testing.T) {
	const snapshot = `{
  "tables": {"DEFAULT": [
    {"dimension": ["A"], "metric": [10]},
    {"dimension": ["A"], "metric": ["NaN"]},
    {"dimension": ["B"], "metric": ["Infinity"]}
  ]},
  "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]}
}`
	msg, err := dscc.Decode(strings.NewReader(snapshot))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	res, err := quietRunner(nil).Draw(context.Background(), msg, Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.Panel != nil {
		t.Fatalf("unexpected panel: %+v", res.Panel)
	}
	if res.Hierarchy.Value != 10 {
		t.Errorf("total = %g, want 10", res.Hierarchy.Value)
	}
	if res.Stats.Warnings != 2 {
		t.Errorf("Warnings = %d, want 2", res.Stats.Warnings)
	}
	if len(res.Artifacts["json"]) == 0 {
		t.Error("json artifact missing")
	}
}

func TestDrawLocalReturnsErrors(t *testing.T) {
	_, err := quietRunner(nil).Draw(context.Background(), sample(t), Options{Width: 100, Height: 100, Local: true})
	if !errors.Is(err, errors.ErrCodeSize) {
		t.Errorf("Draw error = %v, want SIZE_ERROR", err)
	}
}

func TestDrawCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := quietRunner(fc)
	ctx := context.Background()
	opts := Options{Formats: []string{"svg", "json"}}

	first, err := r.Draw(ctx, sample(t), opts)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first draw should miss the cache")
	}

	second, err := r.Draw(ctx, sample(t), opts)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Errorf("second draw hits = %v, want all formats", second.CacheInfo.Hits)
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := r.Draw(ctx, sample(t), opts)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(third.CacheInfo.Hits) != 0 {
		t.Errorf("refresh draw hits = %v, want none", third.CacheInfo.Hits)
	}

	opts.Refresh = false
	opts.Width = 1000
	fourth, err := r.Draw(ctx, sample(t), opts)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(fourth.CacheInfo.Hits) != 0 {
		t.Error("a different width should not reuse cached artifacts")
	}
}

func TestRunnerInstanceID(t *testing.T) {
	msg := sample(t)
	msg.Style = nil

	r := quietRunner(nil)
	a, err := r.Draw(context.Background(), msg, Options{})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	b, err := r.Draw(context.Background(), msg, Options{})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if a.Config.InstanceID == "" || a.Config.InstanceID != b.Config.InstanceID {
		t.Errorf("InstanceID = %q then %q, want stable non-empty id", a.Config.InstanceID, b.Config.InstanceID)
	}
}

func TestRunnerHierarchy(t *testing.T) {
	root, rows, err := quietRunner(nil).Hierarchy(context.Background(), sample(t), Options{})
	if err != nil {
		t.Fatalf("Hierarchy: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
	if root.Value != 22 {
		t.Errorf("root.Value = %g, want 22", root.Value)
	}
}

func TestDrawExampleSnapshots(t *testing.T) {
	tests := []struct {
		file   string
		arcs   int
		depth  int
		total  float64
		active bool
	}{
		{"sales.json", 25, 3, 13450, false},
		{"filtered.json", 8, 2, 9350, true},
	}

	r := quietRunner(nil)
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			msg, err := dscc.ReadFile("../../examples/data/" + tt.file)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			res, err := r.Draw(context.Background(), msg, Options{Formats: []string{"json"}})
			if err != nil {
				t.Fatalf("Draw: %v", err)
			}
			if res.Panel != nil {
				t.Fatalf("unexpected panel: %+v", res.Panel)
			}
			if res.Stats.Arcs != tt.arcs {
				t.Errorf("Arcs = %d, want %d", res.Stats.Arcs, tt.arcs)
			}
			if res.Stats.Depth != tt.depth {
				t.Errorf("Depth = %d, want %d", res.Stats.Depth, tt.depth)
			}
			if res.Hierarchy.Value != tt.total {
				t.Errorf("total = %g, want %g", res.Hierarchy.Value, tt.total)
			}
			if res.Config.FilterActive != tt.active {
				t.Errorf("FilterActive = %v, want %v", res.Config.FilterActive, tt.active)
			}
		})
	}
}
