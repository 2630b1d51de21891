package host

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/observability"
)

// ErrConsumerRunning is returned by [Bridge.Run] when another consumer is
// already attached.
var ErrConsumerRunning = stderrors.New("host: consumer already running")

// interactionBuffer bounds the outbound event queue.
const interactionBuffer = 16

// Handler draws one snapshot.
type Handler func(ctx context.Context, msg *dscc.Message) error

// Bridge delivers host snapshots to a single consumer, newest first.
type Bridge struct {
	logger *log.Logger
	echo   bool

	mu       sync.Mutex
	pending  *dscc.Message
	current  *dscc.Message
	retained *dscc.FilterSelection

	notify  chan struct{}
	events  chan dscc.FilterEvent
	running atomic.Bool
}

// BridgeOption configures a [Bridge].
type BridgeOption func(*Bridge)

// WithLogger sets the logger used for failed draws and dropped events.
func WithLogger(l *log.Logger) BridgeOption {
	return func(b *Bridge) { b.logger = l }
}

// WithEcho makes the bridge answer its own filter events: after an Emit the
// current snapshot is published again with the selection applied, the way
// a dashboard host re-sends data when a filter changes.
func WithEcho() BridgeOption {
	return func(b *Bridge) { b.echo = true }
}

// NewBridge returns an idle bridge.
func NewBridge(opts ...BridgeOption) *Bridge {
	b := &Bridge{
		notify: make(chan struct{}, 1),
		events: make(chan dscc.FilterEvent, interactionBuffer),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Publish stores msg as the next snapshot to draw. An undrawn snapshot that
// is still waiting is discarded. Publish never blocks.
func (b *Bridge) Publish(ctx context.Context, msg *dscc.Message) {
	if msg == nil {
		return
	}
	b.mu.Lock()
	replaced := b.pending != nil
	b.pending = msg
	b.mu.Unlock()

	hooks := observability.Host()
	if replaced {
		hooks.OnSnapshotReplaced(ctx)
	}
	hooks.OnSnapshot(ctx, len(msg.Records()))

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Run hands snapshots to h until ctx is cancelled. Draws run one at a time
// on the calling goroutine; a failed draw is logged and does not stop the
// loop. Only one Run may be active per bridge.
func (b *Bridge) Run(ctx context.Context, h Handler) error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrConsumerRunning
	}
	defer b.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.notify:
		}

		msg := b.take()
		if msg == nil {
			continue
		}
		if err := h(ctx, msg); err != nil {
			b.logger.Error("draw failed", "err", err)
		}
	}
}

func (b *Bridge) take() *dscc.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := b.pending
	b.pending = nil
	if msg != nil {
		b.current = msg
	}
	return msg
}

// Redraw queues the current snapshot again, for example after the
// container was resized. It does nothing when no snapshot was drawn yet or
// a newer one is already waiting.
func (b *Bridge) Redraw(ctx context.Context) {
	b.mu.Lock()
	if b.current == nil || b.pending != nil {
		b.mu.Unlock()
		return
	}
	b.pending = b.current
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Current returns the snapshot most recently handed to the consumer.
func (b *Bridge) Current() *dscc.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Interactions returns the queue of outbound filter events.
func (b *Bridge) Interactions() <-chan dscc.FilterEvent { return b.events }

// Retained returns the last selection sent to the host, or nil after a
// reset.
func (b *Bridge) Retained() *dscc.FilterSelection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.retained
}

// Emit sends a filter event toward the host. Events are dropped with a
// warning when nobody drains [Bridge.Interactions].
func (b *Bridge) Emit(ctx context.Context, evt dscc.FilterEvent) error {
	if evt.InteractionID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "interaction id is required")
	}
	switch evt.Type {
	case dscc.InteractionFilter, dscc.InteractionReset:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unsupported interaction type %q", evt.Type)
	}

	b.mu.Lock()
	if evt.Type == dscc.InteractionFilter && evt.Data != nil {
		b.retained = evt.Data
	} else {
		b.retained = nil
	}
	cur := b.current
	b.mu.Unlock()

	observability.Host().OnInteraction(ctx, string(evt.Type))

	select {
	case b.events <- evt:
	default:
		b.logger.Warn("interaction dropped", "type", evt.Type, "interaction", evt.InteractionID)
	}

	if b.echo && cur != nil {
		b.Publish(ctx, cur.WithSelection(evt))
	}
	return nil
}
