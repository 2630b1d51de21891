package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/host"
	"github.com/matzehuels/sunburst/pkg/host/httpapi"
	"github.com/matzehuels/sunburst/pkg/observability/prom"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	data    string
	formats []string
	width   float64
	height  float64
	title   string
	local   bool
	noEcho  bool
	metrics bool
	wait    time.Duration
	cache   cacheFlags
}

// serveCommand creates the serve command. It stands in for the dashboard
// host: snapshots are POSTed to /data, every draw replaces the chart served
// at /chart.svg, and clicks on arcs come back through /interactions.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts       serveOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart and accept snapshots over HTTP",
		Long: `Serve the chart over HTTP, acting as a minimal dashboard host.

  POST /data           publish a data snapshot (latest wins)
  GET  /chart.{fmt}    the most recent drawing (svg, json, png, pdf)
  POST /interactions   filter events from the chart
  GET  /selection      the retained selection
  GET  /events         server-sent "draw" events
  POST /resize         container size {"width", "height"}, debounced

With echo enabled (the default) a filter event is applied to the current
snapshot and redrawn, the way a dashboard host would apply it.

Serving on a local address (the default localhost:8080) runs in dev mode:
interaction state is ignored, so filtering and echo stay inactive and draw
errors are logged instead of drawn. Pass --local=false to exercise the
filter loop locally.`,
		Example: `  sunburst serve --data examples/data/sales.json
  sunburst serve --data examples/data/filtered.json --local=false
  curl -X POST --data @snapshot.json http://localhost:8080/data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Serve.Addr
			}
			if !cmd.Flags().Changed("no-echo") {
				opts.noEcho = !c.Config.Serve.Echo
			}
			if !cmd.Flags().Changed("width") && c.Config.Width > 0 {
				opts.width = c.Config.Width
			}
			if !cmd.Flags().Changed("height") && c.Config.Height > 0 {
				opts.height = c.Config.Height
			}
			if !cmd.Flags().Changed("debounce") && c.Config.Watch.Debounce.Duration > 0 {
				opts.wait = c.Config.Watch.Debounce.Duration
			}
			if !cmd.Flags().Changed("local") {
				opts.local = host.IsLocal(opts.addr)
			}
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8080", "listen address (env "+envAddr+")")
	cmd.Flags().StringVar(&opts.data, "data", "", "initial snapshot file or URL")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "svg,json", "formats drawn per snapshot (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "container width")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "container height")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (default: dimensions by metric)")
	cmd.Flags().BoolVar(&opts.local, "local", false, "dev mode: ignore interactions and fail on errors (default: on for local addresses)")
	cmd.Flags().BoolVar(&opts.noEcho, "no-echo", false, "do not apply filter events to the current snapshot")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	cmd.Flags().DurationVar(&opts.wait, "debounce", pipeline.DefaultDebounce, "quiet period before redrawing after a resize")
	opts.cache.register(cmd)

	return cmd
}

// runServe runs the HTTP server and the draw loop until ctx is done or
// either fails.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	bridgeOpts := []host.BridgeOption{host.WithLogger(logger)}
	if !opts.noEcho {
		bridgeOpts = append(bridgeOpts, host.WithEcho())
	}
	bridge := host.NewBridge(bridgeOpts...)
	surface := host.NewSurface()

	viewport := host.NewViewport(opts.width, opts.height, opts.wait, func() {
		bridge.Redraw(ctx)
	})
	defer viewport.Stop()

	handlerOpts := []httpapi.Option{httpapi.WithLogger(logger), httpapi.WithResizer(viewport)}
	if opts.metrics {
		metrics := prom.New(prometheus.NewRegistry())
		metrics.Install()
		handlerOpts = append(handlerOpts, httpapi.WithMetrics(metrics.Handler()))
	}

	if opts.data != "" {
		msg, err := loadSnapshot(ctx, opts.data, runner.Cache, false, !opts.local)
		if err != nil {
			return fmt.Errorf("load %s: %w", opts.data, err)
		}
		bridge.Publish(ctx, msg)
	}

	drawOpts := pipeline.Options{
		Formats:  opts.formats,
		Title:    opts.title,
		Endpoint: httpapi.InteractionsPath,
		Local:    opts.local,
		Logger:   logger,
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           httpapi.NewHandler(bridge, surface, handlerOpts...),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		printSuccess("Serving on %s", StyleLink.Render(baseURL(opts.addr)))
		if opts.local {
			printDetail("dev mode: interactions ignored, draw errors are logged (--local=false to filter)")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped")
		return nil
	})

	g.Go(func() error {
		return bridge.Run(gctx, func(ctx context.Context, msg *dscc.Message) error {
			o := drawOpts
			o.Width, o.Height = viewport.Size()
			return drawToSurface(ctx, runner, surface, msg, o, logger)
		})
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case evt := <-bridge.Interactions():
				logger.Info("Interaction", "type", evt.Type, "id", evt.InteractionID, "selection", selectionLabel(evt))
			}
		}
	})

	return g.Wait()
}

// drawToSurface draws msg and replaces the served artifacts.
func drawToSurface(ctx context.Context, runner *pipeline.Runner, surface *host.Surface, msg *dscc.Message, opts pipeline.Options, logger *log.Logger) error {
	result, err := runner.Draw(ctx, msg, opts)
	if err != nil {
		return err
	}
	version := surface.Replace(result.Artifacts)
	if result.Panel != nil {
		logger.Warn("Drew error panel", "version", version, "kind", result.Panel.Kind, "title", result.Panel.Title)
		return nil
	}
	logger.Info("Drew chart", "version", version, "arcs", result.Stats.Arcs,
		"rings", result.Stats.Depth, "cached", result.CacheInfo.RenderHit)
	return nil
}

// selectionLabel renders the selected path of evt as "A > B".
func selectionLabel(evt dscc.FilterEvent) string {
	if evt.Data == nil {
		return "-"
	}
	path := evt.Data.Path()
	labels := make([]string, len(path))
	for i, v := range path {
		labels[i] = v.Label()
	}
	return strings.Join(labels, " > ")
}

// baseURL turns a listen address into a browsable URL.
func baseURL(addr string) string {
	h, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = host.LocalHost()
	}
	return "http://" + net.JoinHostPort(h, port)
}
