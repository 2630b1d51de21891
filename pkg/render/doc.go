// Package render provides visualization rendering for hierarchical charts.
//
// # Overview
//
// This package contains the rendering stages that turn a grouped hierarchy
// into visual output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Sunburst charts (in the [sunburst] subpackages)
//   - Node-link tree diagrams (in [tree] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the sunburst sink and
// the tree renderer use them.
//
//	svg := sink.RenderSVG(l, cfg)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Sunburst
//
// Key sunburst subpackages:
//   - [sunburst/layout]: radial partition of the hierarchy
//   - [sunburst/styles]: host style resolution and color palettes
//   - [sunburst/sink]: output formats (SVG, JSON, PNG, PDF) and error panels
//
// # Tree Diagrams
//
// The [tree] subpackage renders the hierarchy as a Graphviz diagram, one box
// per group, which is handy for checking how rows were grouped.
//
//	dot := tree.ToDOT(root, tree.Options{})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// [sunburst]: github.com/matzehuels/sunburst/pkg/render/sunburst
// [sunburst/layout]: github.com/matzehuels/sunburst/pkg/render/sunburst/layout
// [sunburst/styles]: github.com/matzehuels/sunburst/pkg/render/sunburst/styles
// [sunburst/sink]: github.com/matzehuels/sunburst/pkg/render/sunburst/sink
// [tree]: github.com/matzehuels/sunburst/pkg/render/tree
package render
