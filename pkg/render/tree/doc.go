// Package tree renders a grouped hierarchy as a node-link diagram.
//
// # Overview
//
// Each group of the hierarchy appears as a box connected to its parent, so
// the diagram shows exactly how rows were grouped level by level. It is a
// debugging companion to the sunburst: the same tree, drawn flat.
//
// # Usage
//
// Convert a hierarchy to DOT format, then render to SVG:
//
//	dot := tree.ToDOT(root, tree.Options{Metric: "Sales"})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := tree.RenderPDF(ctx, dot)
//	png, err := tree.RenderPNG(ctx, dot, 2.0)
//
// # Options
//
//   - Metric: label name of the aggregated value shown in every box
//   - Detailed: also show the row count of each group
//   - MaxDepth: stop after this many levels (0 means all)
//   - Colors: fill boxes with their sunburst arc color
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded
// box nodes. Rendering uses [github.com/goccy/go-graphviz] in-process; PDF
// and PNG conversion requires librsvg (rsvg-convert).
package tree
