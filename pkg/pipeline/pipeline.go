// Package pipeline draws a sunburst chart from one host data snapshot.
//
// This package implements the complete draw pass that the CLI render, watch
// and serve commands share. By centralizing it, every entry point checks
// sizes, reports errors and caches artifacts the same way.
//
// # Architecture
//
// A draw runs four stages:
//
//  1. Size: reject containers below [MinSize] before any data work
//  2. Parse: flatten the default table into rows and resolve style options
//  3. Layout: group rows into a hierarchy and partition it into arcs
//  4. Render: produce the requested formats (SVG, JSON, PNG, PDF)
//
// A failure in any stage ends the draw. Unless [Options.Local] is set, the
// failure is converted into an error panel that takes the place of the chart
// in every requested format, and Draw returns no error.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Draw(ctx, msg, pipeline.Options{Width: 800, Height: 600})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default container height in pixels.
	DefaultHeight = 600.0

	// MinSize is the smallest usable container. A draw fails with a size
	// error when the larger container side is below it.
	MinSize = 300.0

	// DefaultInteractionID is the interaction slot used for filter events.
	DefaultInteractionID = dscc.DefaultInteractionID

	// DefaultDebounce coalesces resize events.
	DefaultDebounce = 600 * time.Millisecond

	// AnimationDuration is the arc transition used when the host has not
	// enabled filtering.
	AnimationDuration = 750 * time.Millisecond

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Draw Configuration
// =============================================================================

// Options contains all configuration for a draw pass that does not come
// from the snapshot itself.
type Options struct {
	// Container
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Interaction
	InteractionID string `json:"interaction_id,omitempty"`
	Endpoint      string `json:"endpoint,omitempty"` // where the chart posts filter events

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Title   string   `json:"title,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // bypass the artifact cache

	// Local disables filtering and returns errors instead of error panels.
	Local bool `json:"local,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a draw.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Panel is set when an error panel replaced the chart.
	Panel *Panel

	// Config is the chart configuration the draw used.
	Config sink.Config

	// Hierarchy and Layout are nil/zero when the draw failed before them.
	Hierarchy *hierarchy.Node
	Layout    layout.Layout

	// SnapshotHash identifies the snapshot in cache keys.
	SnapshotHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Panel describes the error panel that replaced the chart.
type Panel struct {
	Kind    errors.Kind
	Title   string
	Message string
	Err     error
}

// Stats contains draw statistics.
type Stats struct {
	Rows       int
	Nodes      int
	Arcs       int
	Depth      int
	Warnings   int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool     // all artifacts came from cache
	Hits      []string // formats served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "container size must not be negative (got %gx%g)", o.Width, o.Height)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.InteractionID == "" {
		o.InteractionID = DefaultInteractionID
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive (got %g)", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format is requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format, styleHash, selection string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:    format,
		Width:     int(o.Width),
		Height:    int(o.Height),
		StyleHash: styleHash,
		Selection: selection,
		Local:     o.Local,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
