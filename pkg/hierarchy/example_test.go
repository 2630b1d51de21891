package hierarchy_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/table"
)

func Example() {
	rows := []table.Row{
		{"Region": dscc.String("EU"), "Product": dscc.String("Books"), "Sales": dscc.Number(10)},
		{"Region": dscc.String("EU"), "Product": dscc.String("Games"), "Sales": dscc.Number(5)},
		{"Region": dscc.String("US"), "Product": dscc.String("Books"), "Sales": dscc.Number(7)},
	}

	root, err := hierarchy.Build(rows, []string{"Region", "Product"}, "Sales")
	if err != nil {
		panic(err)
	}

	root.Walk(func(n *hierarchy.Node) bool {
		if n.IsRoot() {
			fmt.Printf("total %v\n", n.Value)
			return true
		}
		fmt.Printf("%s%s %v (%s)\n", strings.Repeat("  ", n.Depth), n.Label(), n.Value, n.ID())
		return true
	})
	// Output:
	// total 22
	//   EU 15 (n0)
	//     Books 10 (n0-0)
	//     Games 5 (n0-1)
	//   US 7 (n1)
	//     Books 7 (n1-0)
}

func ExampleNode_Find() {
	rows := []table.Row{
		{"Region": dscc.String("EU"), "Sales": dscc.Number(3)},
		{"Region": dscc.String("EU"), "Sales": dscc.Number(4)},
	}
	root, _ := hierarchy.Build(rows, []string{"Region"}, "Sales")

	eu := root.Find(dscc.String("EU"))
	fmt.Println(eu.Value, eu.Labels(), len(eu.Rows))
	// Output: 7 [EU] 2
}
