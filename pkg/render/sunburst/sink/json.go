package sink

import (
	"encoding/json"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
)

// Document is the JSON form of a rendered chart.
type Document struct {
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Radius        float64       `json:"radius"`
	Center        [2]float64    `json:"center"`
	Dimensions    []string      `json:"dimensions"`
	Metric        string        `json:"metric"`
	Total         float64       `json:"total"`
	InstanceID    string        `json:"instance_id,omitempty"`
	InteractionID string        `json:"interaction_id"`
	FilterActive  bool          `json:"filter_active"`
	Selected      string        `json:"selected,omitempty"`
	AnimationMS   int64         `json:"animation_ms"`
	Arcs          []ArcDoc      `json:"arcs"`
	Legend        []LegendEntry `json:"legend,omitempty"`
}

// ArcDoc is one arc of a [Document].
type ArcDoc struct {
	ID     string       `json:"id"`
	Parent string       `json:"parent"`
	Depth  int          `json:"depth"`
	Field  string       `json:"field"`
	Key    dscc.Value   `json:"key"`
	Path   []dscc.Value `json:"path"`
	Title  string       `json:"title"`
	Value  float64      `json:"value"`
	Share  float64      `json:"share"`
	X0     float64      `json:"x0"`
	X1     float64      `json:"x1"`
	Y0     float64      `json:"y0"`
	Y1     float64      `json:"y1"`
	Fill   string       `json:"fill"`
	D      string       `json:"d"`
}

// BuildDocument converts l into its JSON form.
func BuildDocument(l layout.Layout, cfg Config) Document {
	palette := cfg.Palette()
	cx, cy := cfg.Center()
	total := l.Total()

	doc := Document{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Radius:        l.Radius,
		Center:        [2]float64{cx, cy},
		Dimensions:    cfg.DimensionFields,
		Metric:        cfg.MetricField,
		Total:         total,
		InstanceID:    cfg.InstanceID,
		InteractionID: cfg.InteractionID,
		FilterActive:  cfg.FilterActive,
		Selected:      selectedID(l, cfg),
		AnimationMS:   cfg.AnimationDuration.Milliseconds(),
		Arcs:          make([]ArcDoc, 0, len(l.Arcs)),
	}
	for _, a := range l.Arcs {
		var share float64
		if total > 0 {
			share = max(a.Value, 0) / total
		}
		doc.Arcs = append(doc.Arcs, ArcDoc{
			ID:     a.ID,
			Parent: a.Node.Parent.ID(),
			Depth:  a.Depth,
			Field:  a.Node.Field,
			Key:    a.Node.Key,
			Path:   a.Node.Path(),
			Title:  a.Title(),
			Value:  a.Value,
			Share:  share,
			X0:     a.X0,
			X1:     a.X1,
			Y0:     a.Y0,
			Y1:     a.Y1,
			Fill:   ArcFill(palette, a),
			D:      a.PathData(),
		})
	}
	if cfg.ShowLegend {
		doc.Legend = Legend(l, palette)
	}
	return doc
}

// RenderJSON encodes l as an indented [Document].
func RenderJSON(l layout.Layout, cfg Config) ([]byte, error) {
	return json.MarshalIndent(BuildDocument(l, cfg), "", "  ")
}
