package host

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// snapshot returns a message with n records so tests can tell snapshots apart.
func snapshot(n int) *dscc.Message {
	recs := make([]dscc.TableRecord, n)
	for i := range recs {
		recs[i] = dscc.TableRecord{
			Dimension: []dscc.Value{dscc.String("A")},
			Metric:    []dscc.Value{dscc.Number(1)},
		}
	}
	return &dscc.Message{
		Tables: map[string][]dscc.TableRecord{dscc.DefaultTable: recs},
		Fields: dscc.Fields{
			Dimension: []dscc.Field{{ID: "qt_region", Name: "Region"}},
			Metric:    []dscc.Field{{ID: "qt_sales", Name: "Sales"}},
		},
		Interactions: map[string]dscc.Interaction{
			dscc.DefaultInteractionID: {Value: dscc.InteractionValue{Type: "FILTER"}},
		},
	}
}

func TestBridgeLatestWins(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	var (
		mu   sync.Mutex
		seen []int
	)
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx, func(ctx context.Context, msg *dscc.Message) error {
			mu.Lock()
			seen = append(seen, len(msg.Records()))
			first := len(seen) == 1
			mu.Unlock()
			if first {
				close(started)
				<-release
			}
			return nil
		})
	}()

	b.Publish(ctx, snapshot(1))
	<-started
	b.Publish(ctx, snapshot(2))
	b.Publish(ctx, snapshot(3))
	close(release)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 3}, seen)
	assert.Equal(t, 3, len(b.Current().Records()))
}

func TestBridgeSingleConsumer(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	running := make(chan struct{})
	go b.Run(ctx, func(context.Context, *dscc.Message) error {
		close(running)
		return nil
	})
	b.Publish(ctx, snapshot(1))
	<-running

	err := b.Run(ctx, func(context.Context, *dscc.Message) error { return nil })
	assert.ErrorIs(t, err, ErrConsumerRunning)
}

func TestBridgeEmit(t *testing.T) {
	b := NewBridge()
	ctx := context.Background()

	evt := dscc.NewFilterEvent(dscc.DefaultInteractionID, []string{"qt_region"}, []dscc.Value{dscc.String("A")})
	require.NoError(t, b.Emit(ctx, evt))

	got := <-b.Interactions()
	assert.Equal(t, evt.Type, got.Type)
	require.NotNil(t, b.Retained())
	assert.Equal(t, []string{"qt_region"}, b.Retained().Concepts)

	require.NoError(t, b.Emit(ctx, dscc.NewResetEvent(dscc.DefaultInteractionID)))
	<-b.Interactions()
	assert.Nil(t, b.Retained())
}

func TestBridgeEmitInvalid(t *testing.T) {
	b := NewBridge()
	ctx := context.Background()

	err := b.Emit(ctx, dscc.FilterEvent{Type: dscc.InteractionFilter})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	err = b.Emit(ctx, dscc.FilterEvent{InteractionID: "x", Type: "HIGHLIGHT"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestBridgeEcho(t *testing.T) {
	b := NewBridge(WithEcho())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states := make(chan dscc.InteractionState, 4)
	go b.Run(ctx, func(_ context.Context, msg *dscc.Message) error {
		states <- msg.InteractionState(dscc.DefaultInteractionID)
		return nil
	})

	b.Publish(ctx, snapshot(2))
	first := <-states
	assert.False(t, first.FilterActive)

	evt := dscc.NewFilterEvent(dscc.DefaultInteractionID, []string{"qt_region"}, []dscc.Value{dscc.String("A")})
	require.NoError(t, b.Emit(ctx, evt))

	second := <-states
	assert.True(t, second.FilterActive)
	require.NotNil(t, second.Selection)
	assert.Equal(t, []dscc.Value{dscc.String("A")}, second.Selection.Path())
}

func TestBridgeRedraw(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Redraw(ctx)
	assert.Nil(t, b.Current(), "redraw before any draw queues nothing")

	sizes := make(chan int, 4)
	go b.Run(ctx, func(_ context.Context, msg *dscc.Message) error {
		sizes <- len(msg.Records())
		return nil
	})

	b.Publish(ctx, snapshot(3))
	assert.Equal(t, 3, <-sizes)

	b.Redraw(ctx)
	select {
	case n := <-sizes:
		assert.Equal(t, 3, n)
	case <-time.After(time.Second):
		t.Fatal("redraw did not reach the consumer")
	}
}

func TestViewportCoalescesResizes(t *testing.T) {
	var (
		mu    sync.Mutex
		draws int
	)
	v := NewViewport(800, 600, 50*time.Millisecond, func() {
		mu.Lock()
		draws++
		mu.Unlock()
	})
	defer v.Stop()
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return draws
	}

	for i := 0; i < 5; i++ {
		require.NoError(t, v.Resize(float64(640+i*10), 480))
	}
	assert.Equal(t, 1, count(), "leading edge draws immediately")

	w, h := v.Size()
	assert.Equal(t, 680.0, w)
	assert.Equal(t, 480.0, h)

	require.Eventually(t, func() bool { return count() == 2 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, count(), "one trailing draw per burst")

	require.NoError(t, v.Resize(680, 480))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, count(), "unchanged size does not redraw")

	assert.True(t, errors.Is(v.Resize(0, 480), errors.ErrCodeInvalidInput))
}

func TestSurface(t *testing.T) {
	s := NewSurface()
	ctx, cancel := context.WithCancel(context.Background())
	w := s.Watch(ctx)

	v := s.Replace(map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")})
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, uint64(1), <-w)

	s.Replace(map[string][]byte{"svg": []byte("<svg></svg>")})
	s.Replace(map[string][]byte{"svg": []byte("<svg>3</svg>")})
	assert.Equal(t, uint64(3), <-w)

	data, ok := s.Get("svg")
	require.True(t, ok)
	assert.Equal(t, "<svg>3</svg>", string(data))
	_, ok = s.Get("json")
	assert.False(t, ok, "replaced surface should drop old formats")

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-w
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestIsLocal(t *testing.T) {
	t.Setenv(LocalHostEnv, "")
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"localhost:8080", true},
		{"LOCALHOST", true},
		{"dashboard.example.com", false},
		{":8080", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLocal(tt.host), "IsLocal(%q)", tt.host)
	}

	t.Setenv(LocalHostEnv, "dev.box")
	assert.True(t, IsLocal("dev.box:9000"))
	assert.False(t, IsLocal("localhost"))
}

const localSnapshot = `{
  "tables": {"DEFAULT": [{"dimension": ["A"], "metric": [3]}]},
  "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]},
  "interactions": {"sunburstFilter": {"value": {"type": "FILTER"}}}
}`

func TestLocalSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(localSnapshot), 0o644))

	src := LocalSource{Location: path}
	assert.False(t, src.IsRemote())

	msg, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, msg.Records(), 1)
	assert.Nil(t, msg.Interactions)
}

func TestLocalSourceURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(localSnapshot))
	}))
	defer srv.Close()

	src := LocalSource{Location: srv.URL}
	assert.True(t, src.IsRemote())

	msg, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sales", msg.MetricName())
	assert.False(t, msg.InteractionState(dscc.DefaultInteractionID).FilterEnabled)
}
