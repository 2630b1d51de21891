package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/debounce"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// watchCommand creates the watch command: the local development loop. The
// snapshot file is redrawn whenever it changes, with bursts of writes
// coalesced by the debounce window.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
		wait       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Redraw a snapshot file whenever it changes",
		Long: `Watch a snapshot file and redraw it on every change.

Watch always runs in dev mode: interaction state is ignored and errors are
reported instead of drawn as panels. Editors that save in several steps
trigger one redraw at the start and one after the file settles.`,
		Example: `  sunburst watch examples/data/sales.json -f svg,json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderConfig(cmd, &opts, formatsStr)
			if !cmd.Flags().Changed("debounce") && c.Config.Watch.Debounce.Duration > 0 {
				wait = c.Config.Watch.Debounce.Duration
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			opts.local = true
			return c.runWatch(cmd.Context(), args[0], opts, wait)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "container width")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "container height")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (default: dimensions by metric)")
	cmd.Flags().DurationVar(&wait, "debounce", pipeline.DefaultDebounce, "quiet period before redrawing")
	opts.cache.register(cmd)

	return cmd
}

// runWatch draws input once and then on every change until ctx is done.
func (c *CLI) runWatch(ctx context.Context, input string, opts renderOpts, wait time.Duration) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	redraw := func() {
		prog := newProgress(logger)
		msg, err := loadSnapshot(ctx, input, runner.Cache, true, false)
		if err != nil {
			printError("Load %s: %v", input, err)
			return
		}
		result, err := runner.Draw(ctx, msg, pipeline.Options{
			Width:   opts.width,
			Height:  opts.height,
			Formats: opts.formats,
			Scale:   opts.scale,
			Title:   opts.title,
			Local:   true,
			Logger:  logger,
		})
		if err != nil {
			printError("%v", err)
			return
		}
		paths, err := writeArtifacts(result.Artifacts, opts.formats, opts.output, input)
		if err != nil {
			printError("%v", err)
			return
		}
		printSuccess("Redrew %s", input)
		printStats(result.Stats, result.CacheInfo.RenderHit)
		for _, p := range paths {
			printFile(p)
		}
		prog.done("Redraw complete")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	d := debounce.New(wait, redraw)
	defer d.Stop()

	redraw()
	printInfo("Watching %s (debounce %s, ctrl+c to stop)", input, wait)

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !changed(evt, abs) {
				continue
			}
			logger.Debug("File changed", "op", evt.Op.String(), "path", evt.Name)
			d.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "err", err)
		}
	}
}

// changed reports whether evt rewrote the file at path.
func changed(evt fsnotify.Event, path string) bool {
	if filepath.Clean(evt.Name) != path {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename)
}
