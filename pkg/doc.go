// Package pkg provides the core libraries for the sunburst chart renderer.
//
// # Overview
//
// Sunburst turns one dashboard data snapshot (dimension columns plus one
// metric) into a multi-ring radial chart. Every ring is one dimension, every
// arc is one group sized by its summed metric, and a click on an arc becomes
// a filter event for the host. The pkg directory is organized as:
//
//  1. [dscc], [table], [hierarchy] - the data model: snapshots, flattened rows, grouped trees
//  2. [render] - layout and output (SVG, JSON, PNG, PDF, tree diagrams)
//  3. [host] - the host side: snapshot delivery, filter events, HTTP bridge
//  4. [pipeline] - orchestration (check size → parse → group → lay out → render)
//  5. [cache], [httputil], [observability] - caching, fetching and hooks
//
// # Architecture
//
// The typical data flow:
//
//	Host data snapshot (JSON)
//	         ↓
//	    [dscc] package (decode, interaction state)
//	         ↓
//	    [table] package (columnar records → keyed rows)
//	         ↓
//	    [hierarchy] package (group rows per dimension, sum the metric)
//	         ↓
//	    [render/sunburst/layout] package (angles and radii per node)
//	         ↓
//	    [render/sunburst/sink] package (SVG/JSON, PNG/PDF via rsvg-convert)
//
// # Quick Start
//
//	msg, _ := dscc.ReadFile("examples/data/sales.json")
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Draw(ctx, msg, pipeline.Options{
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{"svg", "json"},
//	})
//	os.WriteFile("chart.svg", result.Artifacts["svg"], 0o644)
//
// A snapshot that cannot be drawn still yields a result: result.Panel
// describes the error panel that replaced the chart. With Options.Local the
// error is returned instead.
//
// # Main Packages
//
// [pipeline] - The draw pass shared by the CLI render, watch and serve
// commands, with artifact caching keyed by snapshot hash and render options.
//
// [host] - A latest-wins [host.Bridge] that serializes draws, a
// [host.Surface] holding the artifacts of the most recent draw, and
// [host/httpapi], a chi router that plays the host over HTTP.
//
// [render/tree] - The same hierarchy as a Graphviz tree diagram.
//
// [debounce] - Leading and trailing edge debouncing for redraw bursts.
//
// [errors] - Error codes and the three error kinds the chart can show
// (resize, no data, general).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/pipeline/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
package pkg
