package pipeline

import (
	"context"

	"github.com/matzehuels/sunburst/pkg/render"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/sink"
)

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, format string, l layout.Layout, cfg sink.Config, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, cfg, svgOptions(opts)...), nil
	case FormatJSON:
		return sink.RenderJSON(l, cfg)
	case FormatPNG:
		return sink.RenderPNG(ctx, l, cfg, opts.Scale)
	case FormatPDF:
		return sink.RenderPDF(ctx, l, cfg)
	default:
		return nil, ValidateFormat(format)
	}
}

// RenderPanel renders p in every requested format. Formats that need the
// external converter are skipped when the conversion fails; the SVG panel
// is always present.
func RenderPanel(ctx context.Context, p Panel, opts Options) map[string][]byte {
	panel := sink.RenderErrorPanel(opts.Width, opts.Height, p.Title, p.Message)
	artifacts := map[string][]byte{FormatSVG: panel}

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			if data, err := sink.RenderErrorJSON(p.Kind.String(), p.Title, p.Message); err == nil {
				artifacts[format] = data
			}
		case FormatPNG:
			if data, err := render.ToPNG(ctx, panel, opts.Scale); err == nil {
				artifacts[format] = data
			} else {
				opts.Logger.Debug("panel conversion failed", "format", format, "err", err)
			}
		case FormatPDF:
			if data, err := render.ToPDF(ctx, panel); err == nil {
				artifacts[format] = data
			} else {
				opts.Logger.Debug("panel conversion failed", "format", format, "err", err)
			}
		}
	}
	return artifacts
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Endpoint != "" {
		out = append(out, sink.WithEndpoint(opts.Endpoint))
	}
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	return out
}
