package pipeline

import (
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/sink"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
	"github.com/matzehuels/sunburst/pkg/table"
)

// CheckSize fails with a size error when the larger side of the container
// is below [MinSize].
func CheckSize(width, height float64) error {
	if max(width, height) < MinSize {
		return errors.New(errors.ErrCodeSize, "container %gx%g is below the minimum size of %gpx", width, height, MinSize)
	}
	return nil
}

// Parse flattens the default table of msg into rows and checks that the
// snapshot declares the fields a chart needs.
func Parse(msg *dscc.Message) ([]table.Row, error) {
	if msg == nil {
		return nil, errors.New(errors.ErrCodeNoData, "no snapshot")
	}
	rows, err := table.FromMessage(msg)
	if err != nil {
		return nil, err
	}
	if len(msg.Fields.Dimension) == 0 {
		return nil, errors.New(errors.ErrCodeConfig, "no dimension fields declared")
	}
	if len(msg.Fields.Metric) == 0 {
		return nil, errors.New(errors.ErrCodeConfig, "no metric field declared")
	}
	return rows, nil
}

// BuildConfig derives the chart configuration from msg and opts. The
// interaction slot is read once here; local draws ignore it.
func BuildConfig(msg *dscc.Message, opts Options) sink.Config {
	cfg := sink.Config{
		Width:         opts.Width,
		Height:        opts.Height,
		InteractionID: opts.InteractionID,
	}
	if msg == nil {
		return cfg.ApplyStyles(styles.ResolveOptions(nil, nil))
	}

	cfg.DimensionFields = msg.DimensionNames()
	cfg.DimensionIDs = msg.DimensionIDs()
	cfg.MetricField = msg.MetricName()
	cfg = cfg.ApplyStyles(styles.ResolveOptions(msg.Style, msg.Theme))

	if !opts.Local {
		st := msg.InteractionState(opts.InteractionID)
		cfg.FilterEnabled = st.FilterEnabled
		cfg.FilterActive = st.FilterActive
		if st.Selection != nil {
			cfg.Selection = st.Selection.Path()
		}
	}

	cfg.AnimationDuration = AnimationDuration
	if cfg.FilterEnabled {
		cfg.AnimationDuration = 0
	}
	return cfg
}
