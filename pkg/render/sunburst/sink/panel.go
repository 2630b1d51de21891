package sink

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
)

const (
	panelTitleSize = 16.0
	panelTextSize  = 13.0
	panelLine      = 18.0
)

// RenderErrorPanel draws a message panel in place of the chart.
func RenderErrorPanel(width, height float64, title, message string) []byte {
	width = math.Max(width, 1)
	height = math.Max(height, 1)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(math.Round(width)), int(math.Round(height)),
		attr("viewBox", "0 0 "+num(width)+" "+num(height)),
		attr("class", "sunburst-error"))
	canvas.Title(title)
	canvas.Group(attr("id", "error"), attr("font-family", styles.DefaultFontFamily),
		attr("transform", translate(Margin*2, Margin*2)))
	canvas.Text(0, int(panelTitleSize), title,
		attr("font-size", num(panelTitleSize)), attr("font-weight", "bold"))

	maxChars := int((width - 4*Margin) / (panelTextSize * 0.6))
	for i, line := range wrap(message, maxChars) {
		y := panelTitleSize + panelLine*float64(i+1) + 4
		canvas.Text(0, int(y), line, attr("font-size", num(panelTextSize)))
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

// wrap breaks s into lines of at most width characters on word boundaries.
func wrap(s string, width int) []string {
	width = max(width, 10)
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// ErrorDocument is the JSON form of an error panel.
type ErrorDocument struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes the error that replaced the chart.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// RenderErrorJSON encodes an error panel as JSON.
func RenderErrorJSON(kind, title, message string) ([]byte, error) {
	return json.MarshalIndent(ErrorDocument{Error: ErrorBody{Kind: kind, Title: title, Message: message}}, "", "  ")
}
