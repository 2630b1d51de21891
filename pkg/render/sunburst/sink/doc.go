// Package sink provides output format renderers for sunburst charts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format.
// This package provides renderers for:
//
//   - SVG: the interactive chart with legend, labels and tooltip
//   - JSON: arcs, colors and totals for programmatic consumers
//   - PDF and PNG: via rsvg-convert
//   - Error panels that replace the chart when a render fails
//
// # SVG Output
//
// [RenderSVG] draws one arc per non-root node. Hovering an arc fills the
// tooltip group (#tooltip with #title and #count) and fades every arc that
// is not an ancestor of it. Clicking an arc toggles the chart's filter and
// sends a filter event to the host: a POST to the configured endpoint when
// set, otherwise a postMessage to the embedding frame. Clicking the center
// clears the filter.
//
//	cfg := sink.Config{Width: 800, Height: 600, MetricField: "Sales", ...}
//	l := layout.Build(root, cfg.Radius())
//	svg := sink.RenderSVG(l, cfg, sink.WithEndpoint("/interactions"))
//
// # Error Panels
//
// [RenderErrorPanel] draws a titled message in place of the chart, and
// [RenderErrorJSON] is its JSON counterpart.
package sink
