// Package host connects the renderer to the dashboard that owns the data.
//
// The host pushes data snapshots at any time. A [Bridge] keeps only the most
// recent one that has not been drawn yet and hands it to a single consumer,
// so a burst of updates collapses into one redraw of the newest snapshot and
// no two draws ever overlap. Filter selections made on the chart travel the
// other way through [Bridge.Emit].
//
// A [Surface] holds the artifacts of the last completed draw. Each draw
// replaces the previous content entirely; watchers learn about new versions
// through [Surface.Watch].
//
// [LocalSource] loads a snapshot from a file or URL for development. Local
// snapshots carry no interaction state since no host owns a filter.
package host
