package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sunburst/pkg/hierarchy"
)

// FullCircle is the angular extent of the root.
const FullCircle = 2 * math.Pi

// Arc is the geometry of one node.
type Arc struct {
	ID     string
	Node   *hierarchy.Node
	Depth  int
	Labels []string
	X0, X1 float64
	Y0, Y1 float64
	Value  float64
}

// Layout holds the arcs of every non-root node in pre-order, together with
// the root's own geometry.
type Layout struct {
	Radius float64
	Band   float64
	Root   Arc
	Arcs   []Arc

	index map[string]int
}

// Build lays out root within a circle of the given radius.
func Build(root *hierarchy.Node, radius float64) Layout {
	band := radius / float64(root.Height()+1)
	l := Layout{
		Radius: radius,
		Band:   band,
		index:  make(map[string]int),
	}
	l.Root = newArc(root, 0, FullCircle, band)
	l.partition(root, 0, FullCircle)
	return l
}

func newArc(n *hierarchy.Node, x0, x1, band float64) Arc {
	return Arc{
		ID:     n.ID(),
		Node:   n,
		Depth:  n.Depth,
		Labels: n.Labels(),
		X0:     x0,
		X1:     x1,
		Y0:     float64(n.Depth) * band,
		Y1:     float64(n.Depth+1) * band,
		Value:  n.Value,
	}
}

func (l *Layout) partition(n *hierarchy.Node, x0, x1 float64) {
	if len(n.Children) == 0 {
		return
	}

	var total float64
	for _, c := range n.Children {
		total += math.Max(c.Value, 0)
	}

	span := x1 - x0
	x := x0
	for i, c := range n.Children {
		var w float64
		if total > 0 {
			w = span * math.Max(c.Value, 0) / total
		} else {
			w = span / float64(len(n.Children))
		}
		cx1 := x + w
		if i == len(n.Children)-1 {
			cx1 = x1
		}
		arc := newArc(c, x, cx1, l.Band)
		l.index[arc.ID] = len(l.Arcs)
		l.Arcs = append(l.Arcs, arc)
		l.partition(c, x, cx1)
		x = cx1
	}
}

// Arc returns the arc with the given node id.
func (l Layout) Arc(id string) (Arc, bool) {
	if id == l.Root.ID {
		return l.Root, true
	}
	i, ok := l.index[id]
	if !ok {
		return Arc{}, false
	}
	return l.Arcs[i], true
}

// Ring returns the arcs at depth in angular order.
func (l Layout) Ring(depth int) []Arc {
	var out []Arc
	for _, a := range l.Arcs {
		if a.Depth == depth {
			out = append(out, a)
		}
	}
	return out
}

// Total returns the aggregated value of the root.
func (l Layout) Total() float64 { return l.Root.Value }

// Span returns the angular extent of a.
func (a Arc) Span() float64 { return a.X1 - a.X0 }

// MidAngle returns the angle halfway through a.
func (a Arc) MidAngle() float64 { return (a.X0 + a.X1) / 2 }

// MidRadius returns the radius halfway through a's band.
func (a Arc) MidRadius() float64 { return (a.Y0 + a.Y1) / 2 }

// Title returns the path of labels joined with " > ".
func (a Arc) Title() string { return strings.Join(a.Labels, " > ") }

// Point returns the cartesian coordinates of angle and radius r.
func Point(angle, r float64) (x, y float64) {
	return r * math.Sin(angle), -r * math.Cos(angle)
}

// Centroid returns the center point of a, where labels are anchored.
func (a Arc) Centroid() (x, y float64) {
	return Point(a.MidAngle(), a.MidRadius())
}

// LabelRotation returns the rotation in degrees that aligns text radially
// through the centroid while keeping it upright.
func (a Arc) LabelRotation() float64 {
	deg := a.MidAngle() * 180 / math.Pi
	rot := deg - 90
	if deg > 180 {
		rot -= 180
	}
	return rot
}

// PathData returns the SVG path of a as an annular sector. Full circles are
// drawn as two half arcs, and a zero inner radius yields a wedge.
func (a Arc) PathData() string {
	const eps = 1e-9
	r0, r1 := a.Y0, a.Y1
	span := a.Span()
	if span <= eps || r1 <= r0 {
		return ""
	}

	var b strings.Builder
	if span >= FullCircle-eps {
		fmt.Fprintf(&b, "M0,%sA%s,%s 0 1,1 0,%sA%s,%s 0 1,1 0,%sZ",
			f(-r1), f(r1), f(r1), f(r1), f(r1), f(r1), f(-r1))
		if r0 > eps {
			fmt.Fprintf(&b, "M0,%sA%s,%s 0 1,0 0,%sA%s,%s 0 1,0 0,%sZ",
				f(-r0), f(r0), f(r0), f(r0), f(r0), f(r0), f(-r0))
		}
		return b.String()
	}

	large := 0
	if span > math.Pi {
		large = 1
	}
	ox0, oy0 := Point(a.X0, r1)
	ox1, oy1 := Point(a.X1, r1)
	fmt.Fprintf(&b, "M%s,%sA%s,%s 0 %d,1 %s,%s", f(ox0), f(oy0), f(r1), f(r1), large, f(ox1), f(oy1))
	if r0 > eps {
		ix1, iy1 := Point(a.X1, r0)
		ix0, iy0 := Point(a.X0, r0)
		fmt.Fprintf(&b, "L%s,%sA%s,%s 0 %d,0 %s,%s", f(ix1), f(iy1), f(r0), f(r0), large, f(ix0), f(iy0))
	} else {
		b.WriteString("L0,0")
	}
	b.WriteString("Z")
	return b.String()
}

func f(v float64) string {
	if math.Abs(v) < 0.005 {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
