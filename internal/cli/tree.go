package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/pipeline"
	"github.com/matzehuels/sunburst/pkg/render/tree"
)

const formatDOT = "dot"

// treeFormats are the output formats of the tree command.
var treeFormats = map[string]bool{
	formatDOT:          true,
	pipeline.FormatSVG: true,
	pipeline.FormatPNG: true,
	pipeline.FormatPDF: true,
}

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	output   string
	formats  []string
	detailed bool
	maxDepth int
	colors   bool
	scale    float64
	cache    cacheFlags
}

// treeCommand creates the tree command. It shows the grouped hierarchy
// behind a chart: as a table in the terminal, or as a Graphviz diagram.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		opts       treeOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "tree [file|url]",
		Short: "Show the hierarchy behind a chart",
		Long: `Show the grouped hierarchy of a data snapshot.

Without --format the hierarchy is printed as a table. With --format it is
drawn as a tree diagram with Graphviz (dot, svg, png, pdf).`,
		Example: `  sunburst tree examples/data/sales.json --max-depth 2
  sunburst tree data.json -f svg --colors -o hierarchy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr != "" {
				opts.formats = parseFormats(formatsStr)
				for _, f := range opts.formats {
					if !treeFormats[f] {
						return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf)", f)
					}
				}
			}
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "diagram format(s): dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show row counts")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "levels to show (0 = all)")
	cmd.Flags().BoolVar(&opts.colors, "colors", false, "fill diagram nodes with their arc colors")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runTree(ctx context.Context, input string, opts treeOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	msg, err := loadSnapshot(ctx, input, runner.Cache, false, false)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	drawOpts := pipeline.Options{Local: true, Logger: logger}
	root, rows, err := runner.Hierarchy(ctx, msg, drawOpts)
	if err != nil {
		return err
	}

	if len(opts.formats) == 0 {
		fmt.Println(hierarchyTable(root, msg.MetricName(), opts.maxDepth))
		printDetail("%d rows · %d nodes · %d levels", len(rows), root.Count(), root.Height())
		return nil
	}

	diagram := tree.Options{
		Metric:   msg.MetricName(),
		Detailed: opts.detailed,
		MaxDepth: opts.maxDepth,
	}
	if opts.colors {
		palette := pipeline.BuildConfig(msg, drawOpts).Palette()
		diagram.Palette = &palette
	}
	dot := tree.ToDOT(root, diagram)

	base := basePath(opts.output, input)
	if opts.output != "" && len(opts.formats) == 1 {
		base = strings.TrimSuffix(opts.output, "."+opts.formats[0])
	}
	for _, format := range opts.formats {
		data, err := renderTree(ctx, dot, format, opts.scale)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printSuccess("Rendered hierarchy of %s", input)
	return nil
}

func renderTree(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case pipeline.FormatSVG:
		return tree.RenderSVG(ctx, dot)
	case pipeline.FormatPNG:
		return tree.RenderPNG(ctx, dot, scale)
	case pipeline.FormatPDF:
		return tree.RenderPDF(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
