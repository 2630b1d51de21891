package sink

import (
	"context"

	"github.com/matzehuels/sunburst/pkg/render"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
)

// RenderPDF renders l as PDF via SVG conversion. The interaction script is
// omitted since PDF viewers do not run it.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, l layout.Layout, cfg Config) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, cfg, WithoutScript()))
}

// RenderPNG renders l as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, l layout.Layout, cfg Config, scale float64) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(l, cfg, WithoutScript()), scale)
}
