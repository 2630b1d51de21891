package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	endpoint string
	title    string
	script   bool
}

// WithEndpoint makes clicks POST filter events to url instead of posting
// them to the parent frame.
func WithEndpoint(url string) SVGOption { return func(r *svgRenderer) { r.endpoint = url } }

// WithTitle sets the document title. It defaults to the metric by dimensions.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithoutScript omits the interaction script, for static exports.
func WithoutScript() SVGOption { return func(r *svgRenderer) { r.script = false } }

// RenderSVG draws l as an SVG document.
func RenderSVG(l layout.Layout, cfg Config, opts ...SVGOption) []byte {
	r := svgRenderer{script: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.title == "" {
		r.title = defaultTitle(cfg)
	}

	palette := cfg.Palette()
	selected := selectedID(l, cfg)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(math.Round(cfg.Width)), int(math.Round(cfg.Height)), r.rootAttrs(cfg, selected)...)
	canvas.Title(r.title)

	css := chartCSS + animationCSS(cfg.AnimationDuration)
	canvas.Style("text/css", css)

	cx, cy := cfg.Center()
	canvas.Group(attr("id", cfg.prefix()+"-chart"), attr("transform", translate(cx, cy)),
		attr("font-family", cfg.FontFamily))

	renderArcs(canvas, l, cfg, palette, selected)
	if cfg.ShowLabels {
		renderLabels(canvas, l, cfg)
	}
	canvas.Gend()

	if cfg.ShowLegend {
		renderLegend(canvas, l, cfg, palette)
	}
	renderTooltip(canvas, cfg)

	if r.script {
		canvas.Script("text/javascript", chartJS)
	}
	canvas.End()
	return buf.Bytes()
}

func (r svgRenderer) rootAttrs(cfg Config, selected string) []string {
	concepts, _ := json.Marshal(cfg.DimensionIDs)
	filter := "off"
	if cfg.FilterEnabled {
		filter = "on"
	}
	attrs := []string{
		attr("viewBox", fmt.Sprintf("0 0 %s %s", num(cfg.Width), num(cfg.Height))),
		attr("class", "sunburst"),
		attr("id", cfg.prefix()),
		attr("data-interaction", cfg.InteractionID),
		attr("data-concepts", string(concepts)),
		attr("data-filter", filter),
	}
	if cfg.InstanceID != "" {
		attrs = append(attrs, attr("data-instance", cfg.InstanceID))
	}
	if selected != "" {
		attrs = append(attrs, attr("data-selected", selected))
	}
	if r.endpoint != "" {
		attrs = append(attrs, attr("data-endpoint", r.endpoint))
	}
	return attrs
}

func defaultTitle(cfg Config) string {
	if len(cfg.DimensionFields) == 0 {
		return cfg.MetricField
	}
	return cfg.MetricField + " by " + strings.Join(cfg.DimensionFields, ", ")
}

func selectedID(l layout.Layout, cfg Config) string {
	if !cfg.FilterActive || len(cfg.Selection) == 0 || l.Root.Node == nil {
		return ""
	}
	n := l.Root.Node.Find(cfg.Selection...)
	if n == nil || n.IsRoot() {
		return ""
	}
	return n.ID()
}

// onSelection reports whether the arc id is the selected node, one of its
// ancestors or one of its descendants.
func onSelection(id, selected string) bool {
	return id == selected ||
		strings.HasPrefix(id, selected+"-") ||
		strings.HasPrefix(selected, id+"-")
}

func renderArcs(canvas *svg.SVG, l layout.Layout, cfg Config, palette styles.Palette, selected string) {
	canvas.Path(l.Root.PathData(), attr("class", "root"), attr("data-node", l.Root.ID))

	canvas.Group(attr("class", "arcs"))
	total := l.Total()
	for _, a := range l.Arcs {
		d := a.PathData()
		if d == "" {
			continue
		}
		class := "arc"
		if selected != "" && !onSelection(a.ID, selected) {
			class += " dimmed"
		}
		path, _ := json.Marshal(a.Node.Path())
		canvas.Path(d,
			attr("id", cfg.prefix()+"-"+a.ID),
			attr("class", class),
			attr("fill", ArcFill(palette, a)),
			attr("data-node", a.ID),
			attr("data-depth", strconv.Itoa(a.Depth)),
			attr("data-path", string(path)),
			attr("data-title", a.Title()),
			attr("data-count", FormatCount(cfg.MetricField, a.Value, total)),
		)
	}
	canvas.Gend()
}

// ArcFill returns the fill color of a.
func ArcFill(p styles.Palette, a layout.Arc) string {
	top := a.Node.Top()
	if top == nil {
		return "none"
	}
	return p.ColorFor(top.Index(), a.Depth)
}

func renderLabels(canvas *svg.SVG, l layout.Layout, cfg Config) {
	canvas.Group(attr("class", "labels"), attr("fill", cfg.FontColor),
		attr("fill-opacity", num(cfg.FontOpacity)))
	for _, a := range l.Arcs {
		arcLen := a.Span() * a.MidRadius()
		band := a.Y1 - a.Y0
		size := styles.LabelFontSize(arcLen, band)
		text, ok := styles.FitLabel(a.Node.Label(), arcLen, band, size)
		if !ok {
			continue
		}
		x, y := a.Centroid()
		canvas.Text(0, 0, text,
			attr("class", "label"),
			attr("font-size", num(size)),
			attr("transform", translate(x, y)+" rotate("+num(a.LabelRotation())+")"),
		)
	}
	canvas.Gend()
}

func renderLegend(canvas *svg.SVG, l layout.Layout, cfg Config, palette styles.Palette) {
	entries := Legend(l, palette)
	maxRows := int((cfg.Height - 2*Margin) / legendRow)
	if len(entries) > maxRows {
		entries = entries[:max(maxRows, 0)]
	}

	x := cfg.chartWidth() + Margin
	canvas.Group(attr("class", "legend"), attr("transform", translate(x, Margin)),
		attr("font-family", cfg.FontFamily), attr("font-size", "12"),
		attr("fill", cfg.FontColor), attr("fill-opacity", num(cfg.FontOpacity)))
	for i, e := range entries {
		y := int(float64(i) * legendRow)
		canvas.Rect(0, y, int(legendSwatch), int(legendSwatch), attr("fill", e.Fill))
		canvas.Text(int(legendSwatch)+6, y+int(legendSwatch/2), styles.Truncate(e.Label, 20))
	}
	canvas.Gend()
}

// LegendEntry is one row of the legend.
type LegendEntry struct {
	Label string `json:"label"`
	Fill  string `json:"fill"`
}

// Legend returns one entry per first-ring arc in layout order.
func Legend(l layout.Layout, palette styles.Palette) []LegendEntry {
	ring := l.Ring(1)
	out := make([]LegendEntry, 0, len(ring))
	for _, a := range ring {
		out = append(out, LegendEntry{Label: a.Node.Label(), Fill: ArcFill(palette, a)})
	}
	return out
}

func renderTooltip(canvas *svg.SVG, cfg Config) {
	canvas.Group(attr("id", "tooltip"), attr("class", "tooltip"), attr("visibility", "hidden"),
		attr("font-family", cfg.FontFamily), attr("font-size", "12"))
	canvas.Rect(0, 0, 120, 40)
	canvas.Text(8, 16, "", attr("id", "title"))
	canvas.Text(8, 32, "", attr("id", "count"))
	canvas.Gend()
}

// attr renders a single escaped SVG attribute. svgo passes arguments that
// contain "=" through unchanged.
func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func translate(x, y float64) string {
	return "translate(" + num(x) + "," + num(y) + ")"
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
