package tree

import (
	"strings"
	"testing"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
	"github.com/matzehuels/sunburst/pkg/table"
)

func testTree(t *testing.T) *hierarchy.Node {
	t.Helper()
	rows := []table.Row{
		{"Region": dscc.String("A"), "City": dscc.String("X"), "Sales": dscc.Number(10)},
		{"Region": dscc.String("A"), "City": dscc.String("Y"), "Sales": dscc.Number(5)},
		{"Region": dscc.String("B"), "City": dscc.String("Z"), "Sales": dscc.Number(7)},
	}
	root, err := hierarchy.Build(rows, []string{"Region", "City"}, "Sales")
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testTree(t), Options{Metric: "Sales"})

	for _, want := range []string{
		"digraph G {",
		`"root" [label="Total\nSales: 22"`,
		`"n0" [label="A\nSales: 15"]`,
		`"root" -> "n0";`,
		`"n0" -> "n0-1";`,
		`"n1" -> "n1-0";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 5 {
		t.Errorf("edge count = %d, want 5", got)
	}
}

func TestToDOTOptions(t *testing.T) {
	p := styles.NewPalette(styles.Options{ColorScheme: "category10"})
	dot := ToDOT(testTree(t), Options{Detailed: true, MaxDepth: 1, Palette: &p})

	if strings.Contains(dot, "n0-0") {
		t.Error("MaxDepth=1 should omit the second level")
	}
	if !strings.Contains(dot, `rows: 2`) {
		t.Error("Detailed should include row counts")
	}
	if !strings.Contains(dot, `fillcolor="#1f77b4"`) {
		t.Error("Palette should color first-ring boxes")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
}
