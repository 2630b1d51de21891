package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/layout"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/sink"
	"github.com/matzehuels/sunburst/pkg/table"
)

// Runner encapsulates draw execution with caching.
// The CLI and the server both use it so error handling and caching behave
// the same everywhere.
//
// The Runner keeps no draw results. It does hold the generated instance id
// used for charts whose style does not set one, so repeated draws of the
// same chart keep stable SVG element ids.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	instanceOnce sync.Once
	instanceID   string
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// InstanceID returns the id used when a snapshot's style sets none.
func (r *Runner) InstanceID() string {
	r.instanceOnce.Do(func() {
		r.instanceID = uuid.NewString()[:8]
	})
	return r.instanceID
}

// Draw runs one complete draw pass for msg.
//
// Outside local mode, every failure (including a panic) becomes an error
// panel in Result.Panel and Result.Artifacts, and the returned error is nil.
// In local mode the failure is returned.
func (r *Runner) Draw(ctx context.Context, msg *dscc.Message, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	cfg := BuildConfig(msg, opts)
	if cfg.InstanceID == "" {
		cfg.InstanceID = r.InstanceID()
	}
	hooks := observability.Pipeline()
	hooks.OnDrawStart(ctx, cfg.InstanceID)

	result = &Result{Artifacts: map[string][]byte{}, Config: cfg}

	if !opts.Local {
		defer func() {
			if p := recover(); p != nil {
				err = r.panel(ctx, result, errors.New(errors.ErrCodeInternal, "%v", p), opts)
			}
		}()
	}

	if err := r.draw(ctx, msg, cfg, opts, result); err != nil {
		if opts.Local {
			hooks.OnDrawError(ctx, errors.KindOf(err).String())
			return nil, err
		}
		return result, r.panel(ctx, result, err, opts)
	}
	return result, nil
}

func (r *Runner) draw(ctx context.Context, msg *dscc.Message, cfg sink.Config, opts Options, result *Result) error {
	hooks := observability.Pipeline()

	// Stage 1: Size
	if err := CheckSize(opts.Width, opts.Height); err != nil {
		return err
	}

	dump(opts.Logger, msg)

	// Stage 2: Parse
	parseStart := time.Now()
	rows, err := Parse(msg)
	if err != nil {
		hooks.OnHierarchyComplete(ctx, 0, 0, time.Since(parseStart), err)
		return err
	}
	root, warnings, err := BuildHierarchy(rows, cfg, opts.Logger)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnHierarchyComplete(ctx, len(rows), 0, result.Stats.ParseTime, err)
		return err
	}
	result.Hierarchy = root
	result.Stats.Rows = len(rows)
	result.Stats.Nodes = root.Count()
	result.Stats.Depth = root.Height()
	result.Stats.Warnings = warnings
	hooks.OnHierarchyComplete(ctx, len(rows), result.Stats.Nodes, result.Stats.ParseTime, nil)

	opts.Logger.Debug("built hierarchy",
		"rows", len(rows),
		"nodes", result.Stats.Nodes,
		"depth", result.Stats.Depth,
		"warnings", warnings,
		"duration", result.Stats.ParseTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	l := BuildLayout(root, cfg)
	result.Layout = l
	result.Stats.Arcs = len(l.Arcs)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, len(l.Arcs), result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, info, err := r.renderCached(ctx, msg, l, cfg, opts, result)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info

	opts.Logger.Info("rendered chart",
		"arcs", len(l.Arcs),
		"formats", opts.Formats,
		"cached", info.RenderHit,
		"duration", result.Stats.RenderTime)
	return nil
}

// renderCached serves artifacts from the cache where possible and renders
// the rest.
func (r *Runner) renderCached(ctx context.Context, msg *dscc.Message, l layout.Layout, cfg sink.Config, opts Options, result *Result) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo

	snapshotHash, err := cache.HashJSON(msg)
	if err != nil {
		return nil, info, errors.Wrap(errors.ErrCodeInternal, err, "hash snapshot")
	}
	result.SnapshotHash = snapshotHash
	styleHash, _ := cache.HashJSON(struct {
		Styles        any
		InteractionID string
		Endpoint      string
		Title         string
		Animation     time.Duration
		FilterEnabled bool
	}{cfg.Styles(), cfg.InteractionID, opts.Endpoint, opts.Title, cfg.AnimationDuration, cfg.FilterEnabled})
	selection := selectionKey(cfg.Selection, cfg.FilterActive)

	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(snapshotHash, opts.ArtifactKeyOpts(format, styleHash, selection))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, key)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
			cacheHooks.OnCacheMiss(ctx, key)
		}

		data, err := RenderFormat(ctx, format, l, cfg, opts)
		if err != nil {
			return nil, info, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			cacheHooks.OnCacheSet(ctx, key, len(data))
		} else {
			opts.Logger.Debug("cache set failed", "format", format, "err", err)
		}
	}
	info.RenderHit = len(info.Hits) == len(opts.Formats)
	return artifacts, info, nil
}

// panel replaces the artifacts of result with an error panel for err.
func (r *Runner) panel(ctx context.Context, result *Result, err error, opts Options) error {
	kind := errors.KindOf(err)
	title, message := errors.Panel(err)
	observability.Pipeline().OnDrawError(ctx, kind.String())

	p := Panel{Kind: kind, Title: title, Message: message, Err: err}
	result.Panel = &p
	result.Artifacts = RenderPanel(ctx, p, opts)

	if kind == errors.KindGeneral {
		opts.Logger.Error("draw failed", "kind", kind, "err", err)
	} else {
		opts.Logger.Warn("draw failed", "kind", kind, "err", err)
	}
	return nil
}

// Hierarchy runs the parse stage only and returns the grouped hierarchy of
// msg. Errors are always returned.
func (r *Runner) Hierarchy(_ context.Context, msg *dscc.Message, opts Options) (*hierarchy.Node, []table.Row, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}

	rows, err := Parse(msg)
	if err != nil {
		return nil, nil, err
	}
	root, _, err := BuildHierarchy(rows, BuildConfig(msg, opts), opts.Logger)
	if err != nil {
		return nil, nil, err
	}
	return root, rows, nil
}

// dump logs the raw snapshot at debug level.
func dump(logger *log.Logger, msg *dscc.Message) {
	if logger.GetLevel() > log.DebugLevel || msg == nil {
		return
	}
	if data, err := json.Marshal(msg); err == nil {
		logger.Debug("snapshot", "data", string(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func selectionKey(path []dscc.Value, active bool) string {
	if !active {
		return ""
	}
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\x1f")
}
