// Package hierarchy groups flat rows into the nested tree drawn by the
// sunburst.
//
// Each level of the tree corresponds to one dimension field, in declared
// order. Rows are grouped by exact value equality of the level's dimension,
// so the string "1" and the number 1 end up in different groups. Missing or
// empty values form a group of their own. Children keep the order in which
// their key first appears in the input.
//
// Leaf values are the sum of their rows' metric values and every inner node
// carries the sum of its children, so
//
//	node.Value == sum(child.Value for child in node.Children)
//
// holds at every level. Metric values that are not numeric count as 0 and
// are reported through the function installed with [WithWarnFunc].
//
// # Usage
//
//	rows, _ := table.Flatten(msg.Records(), msg.FieldList())
//	root, err := hierarchy.Build(rows, msg.DimensionNames(), msg.MetricName(),
//	    hierarchy.WithWarnFunc(func(msg string, kv ...any) { logger.Warn(msg, kv...) }))
package hierarchy
