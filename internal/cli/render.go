package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/host"
	"github.com/matzehuels/sunburst/pkg/httputil"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // output formats: svg, json, png, pdf
	width   float64  // container width in pixels
	height  float64  // container height in pixels
	scale   float64  // PNG scale factor
	title   string   // accessible chart title
	local   bool     // dev mode: no filtering, errors instead of panels
	refresh bool     // bypass the artifact and fetch caches
	cache   cacheFlags
}

// renderCommand creates the render command. It draws one snapshot, read
// from a file or an http(s) URL, and writes one file per format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [file|url]",
		Short: "Render a data snapshot to a sunburst chart",
		Long: `Render a dashboard data snapshot to a sunburst chart.

The snapshot is a JSON data message as delivered by the host: fields, table
rows, style settings and interaction state. Use "-" to read from stdin.

Without --local a broken snapshot still produces output: the chart is
replaced by an error panel describing the problem. With --local the
interaction state is ignored and errors fail the command.`,
		Example: `  sunburst render examples/data/sales.json
  sunburst render data.json -f svg,png -o out/chart
  sunburst render https://example.com/snapshot.json --width 1200 --height 900`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderConfig(cmd, &opts, formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "container width")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "container height")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (default: dimensions by metric)")
	cmd.Flags().BoolVar(&opts.local, "local", false, "dev mode: ignore interactions and fail on errors")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached artifacts and snapshots")
	opts.cache.register(cmd)

	return cmd
}

// applyRenderConfig fills every flag the user did not set from the config file.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *renderOpts, formatsStr string) {
	flags := cmd.Flags()
	if !flags.Changed("width") && c.Config.Width > 0 {
		opts.width = c.Config.Width
	}
	if !flags.Changed("height") && c.Config.Height > 0 {
		opts.height = c.Config.Height
	}
	if !flags.Changed("scale") && c.Config.Scale > 0 {
		opts.scale = c.Config.Scale
	}
	if formatsStr == "" && len(c.Config.Formats) > 0 {
		opts.formats = parseFormats(strings.Join(c.Config.Formats, ","))
	} else {
		opts.formats = parseFormats(formatsStr)
	}
}

// runRender loads the snapshot, draws it and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	msg, err := loadSnapshot(ctx, input, runner.Cache, opts.refresh, !opts.local)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	logger.Debug("Loaded snapshot", "input", input, "rows", len(msg.Records()))

	result, err := runner.Draw(ctx, msg, pipeline.Options{
		Width:   opts.width,
		Height:  opts.height,
		Formats: opts.formats,
		Scale:   opts.scale,
		Title:   opts.title,
		Refresh: opts.refresh,
		Local:   opts.local,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.formats, opts.output, input)
	if err != nil {
		return err
	}

	if result.Panel != nil {
		printPanel(result.Panel)
	} else {
		printSuccess("Rendered %s", input)
		printStats(result.Stats, result.CacheInfo.RenderHit)
	}
	for _, p := range paths {
		printFile(p)
	}
	prog.done("Render complete", "formats", len(paths))
	return nil
}

// loadSnapshot reads a snapshot from stdin ("-"), a file or a URL. Remote
// snapshots go through the fetch cache.
func loadSnapshot(ctx context.Context, input string, store cache.Cache, refresh, keepInteractions bool) (*dscc.Message, error) {
	if input == "-" {
		msg, err := dscc.Decode(os.Stdin)
		if err != nil {
			return nil, err
		}
		if !keepInteractions {
			msg = msg.WithoutInteractions()
		}
		return msg, nil
	}

	src := host.LocalSource{
		Location:         input,
		Refresh:          refresh,
		KeepInteractions: keepInteractions,
	}
	if src.IsRemote() {
		src.Client = httputil.NewClient(httputil.WithCache(store, cache.TTLFetch))
	}
	return src.Load(ctx)
}

// writeArtifacts writes artifacts in the order of formats and returns the
// written paths. A single format with an explicit output goes to that exact
// path; otherwise each file is base + "." + format. A derived path that would
// replace the input snapshot becomes base + ".chart." + format instead, and an
// explicit output naming the input is refused.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			printWarning("No %s output (converter unavailable?)", format)
			continue
		}
		p := base + "." + format
		if output != "" && len(formats) == 1 {
			p = output
		}
		if samePath(p, input) {
			if output != "" {
				return paths, fmt.Errorf("refusing to overwrite input %s", input)
			}
			p = base + ".chart." + format
		}
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// samePath reports whether p names the local input file.
func samePath(p, input string) bool {
	if input == "-" || host.IsURL(input) {
		return false
	}
	a, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	b, err := filepath.Abs(input)
	if err != nil {
		return false
	}
	return a == b
}

// basePath derives the output base path. Without an output it strips the
// input's extension; stdin inputs and URLs without a file name fall back to
// the app name. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		switch {
		case input == "-":
			return appName
		case host.IsURL(input):
			u, err := url.Parse(input)
			if err != nil {
				return appName
			}
			name := path.Base(u.Path)
			if name == "/" || name == "." || !strings.Contains(name, ".") {
				return appName
			}
			return strings.TrimSuffix(name, path.Ext(name))
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
