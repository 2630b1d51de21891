package hierarchy

import (
	"strconv"
	"strings"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/table"
)

// RootID is the [Node.ID] of every root node.
const RootID = "root"

// Node is one group in the hierarchy. The root has depth 0 and a null key.
type Node struct {
	Key      dscc.Value
	Field    string
	Depth    int
	Value    float64
	Children []*Node
	Rows     []table.Row
	Parent   *Node

	index int
}

// WarnFunc receives non-fatal diagnostics as a message plus key/value pairs.
type WarnFunc func(msg string, keyvals ...any)

// Option configures [Build].
type Option func(*builder)

// WithWarnFunc installs fn as the receiver of build warnings.
func WithWarnFunc(fn WarnFunc) Option {
	return func(b *builder) {
		if fn != nil {
			b.warn = fn
		}
	}
}

type builder struct {
	dims   []string
	metric string
	warn   WarnFunc
}

// Build groups rows level by level using dims, aggregating metric. An empty
// row set yields an empty root. A metric field with no column in any row
// fails with CONFIG_ERROR.
func Build(rows []table.Row, dims []string, metric string, opts ...Option) (*Node, error) {
	b := &builder{dims: dims, metric: metric, warn: func(string, ...any) {}}
	for _, opt := range opts {
		opt(b)
	}

	root := &Node{Rows: rows}
	if len(rows) == 0 {
		return root, nil
	}
	if !hasColumn(rows, metric) {
		return nil, errors.New(errors.ErrCodeConfig, "metric field %q not found in data", metric)
	}

	b.split(root)
	return root, nil
}

func hasColumn(rows []table.Row, field string) bool {
	for _, r := range rows {
		if _, ok := r.Get(field); ok {
			return true
		}
	}
	return false
}

func (b *builder) split(n *Node) {
	if n.Depth == len(b.dims) {
		n.Value = b.sum(n.Rows)
		return
	}

	field := b.dims[n.Depth]
	grouped := make(map[dscc.Value][]table.Row)
	order := make([]dscc.Value, 0)
	for _, r := range n.Rows {
		key := r[field]
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], r)
	}

	n.Children = make([]*Node, 0, len(order))
	for i, key := range order {
		child := &Node{
			Key:    key,
			Field:  field,
			Depth:  n.Depth + 1,
			Rows:   grouped[key],
			Parent: n,
			index:  i,
		}
		b.split(child)
		n.Children = append(n.Children, child)
		n.Value += child.Value
	}
}

func (b *builder) sum(rows []table.Row) float64 {
	var total float64
	for _, r := range rows {
		v, ok := r.Get(b.metric)
		if !ok {
			b.warn("metric value missing, counting as 0", "field", b.metric)
			continue
		}
		f, ok := v.Float()
		if !ok {
			b.warn("non-numeric metric value, counting as 0", "field", b.metric, "value", v.String())
			continue
		}
		total += f
	}
	return total
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Index returns the position of n among its siblings.
func (n *Node) Index() int { return n.index }

// Label returns the display text of the node key.
func (n *Node) Label() string {
	if n.IsRoot() {
		return ""
	}
	return n.Key.Label()
}

// Path returns the keys from the first level down to n.
func (n *Node) Path() []dscc.Value {
	path := make([]dscc.Value, n.Depth)
	for c := n; c != nil && !c.IsRoot(); c = c.Parent {
		path[c.Depth-1] = c.Key
	}
	return path
}

// Labels returns the display text of each key in [Node.Path].
func (n *Node) Labels() []string {
	path := n.Path()
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = v.Label()
	}
	return out
}

// ID returns a stable identifier built from sibling indices, such as "n0-2".
func (n *Node) ID() string {
	if n.IsRoot() {
		return RootID
	}
	idx := make([]string, n.Depth)
	for c := n; !c.IsRoot(); c = c.Parent {
		idx[c.Depth-1] = strconv.Itoa(c.index)
	}
	return "n" + strings.Join(idx, "-")
}

// Top returns the first-level ancestor of n, or nil for the root.
func (n *Node) Top() *Node {
	if n.IsRoot() {
		return nil
	}
	c := n
	for c.Depth > 1 {
		c = c.Parent
	}
	return c
}

// Walk calls fn for n and its descendants in pre-order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns the leaf nodes below n in order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the descendant reached by following path from n, or nil.
func (n *Node) Find(path ...dscc.Value) *Node {
	cur := n
	for _, key := range path {
		var next *Node
		for _, c := range cur.Children {
			if c.Key == key {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// FindID returns the descendant whose [Node.ID] is id, or nil.
func (n *Node) FindID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Height returns the number of levels below n.
func (n *Node) Height() int {
	h := 0
	for _, c := range n.Children {
		h = max(h, c.Height()+1)
	}
	return h
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool { count++; return true })
	return count
}
