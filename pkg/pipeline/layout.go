package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/sink"
	"github.com/matzehuels/sunburst/pkg/table"
)

// BuildHierarchy groups rows by the dimensions of cfg. Non-fatal warnings
// are logged at warn level and counted.
func BuildHierarchy(rows []table.Row, cfg sink.Config, logger *log.Logger) (*hierarchy.Node, int, error) {
	var warnings int
	warn := func(msg string, keyvals ...any) {
		warnings++
		if logger != nil {
			logger.Warn(msg, keyvals...)
		}
	}
	root, err := hierarchy.Build(rows, cfg.DimensionFields, cfg.MetricField, hierarchy.WithWarnFunc(warn))
	return root, warnings, err
}

// BuildLayout partitions root into arcs sized for cfg.
func BuildLayout(root *hierarchy.Node, cfg sink.Config) layout.Layout {
	return layout.Build(root, cfg.Radius())
}
