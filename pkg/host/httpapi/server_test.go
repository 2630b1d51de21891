package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/host"
)

const snapshot = `{
  "tables": {"DEFAULT": [{"dimension": ["A"], "metric": [3]}, {"dimension": ["B"], "metric": [4]}]},
  "fields": {"dimension": [{"id": "d", "name": "Region"}], "metric": [{"id": "m", "name": "Sales"}]}
}`

func newTestHandler() (http.Handler, *host.Bridge, *host.Surface) {
	b := host.NewBridge()
	s := host.NewSurface()
	return NewHandler(b, s), b, s
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler()
	rr := do(h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestPostData(t *testing.T) {
	h, b, _ := newTestHandler()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *dscc.Message, 1)
	go b.Run(ctx, func(_ context.Context, msg *dscc.Message) error {
		got <- msg
		return nil
	})

	rr := do(h, http.MethodPost, "/data", snapshot)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	select {
	case msg := <-got:
		assert.Len(t, msg.Records(), 2)
	case <-time.After(time.Second):
		t.Fatal("snapshot was not delivered")
	}
}

func TestPostDataInvalid(t *testing.T) {
	h, _, _ := newTestHandler()
	rr := do(h, http.MethodPost, "/data", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetChart(t *testing.T) {
	h, _, s := newTestHandler()

	rr := do(h, http.MethodGet, "/chart.svg", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	s.Replace(map[string][]byte{"svg": []byte("<svg/>")})
	rr = do(h, http.MethodGet, "/chart.svg", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	assert.Equal(t, "<svg/>", rr.Body.String())

	rr = do(h, http.MethodGet, "/chart.gif", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_FORMAT")
}

func TestPostInteraction(t *testing.T) {
	h, b, _ := newTestHandler()

	body := `{"interactionId":"sunburstFilter","type":"FILTER","data":{"concepts":["d"],"values":[["A"]]}}`
	rr := do(h, http.MethodPost, InteractionsPath, body)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	evt := <-b.Interactions()
	assert.Equal(t, dscc.InteractionFilter, evt.Type)

	rr = do(h, http.MethodGet, "/selection", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"concepts":["d"]`)

	rr = do(h, http.MethodPost, InteractionsPath, `{"interactionId":"sunburstFilter","type":"RESET"}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	rr = do(h, http.MethodGet, "/selection", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(h, http.MethodPost, InteractionsPath, `{"type":"FILTER"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPostResize(t *testing.T) {
	h, _, _ := newTestHandler()
	rr := do(h, http.MethodPost, ResizePath, `{"width":640,"height":480}`)
	assert.Equal(t, http.StatusNotFound, rr.Code, "resize is only mounted with a resizer")

	b := host.NewBridge()
	redraws := make(chan struct{}, 4)
	v := host.NewViewport(800, 600, time.Hour, func() { redraws <- struct{}{} })
	defer v.Stop()
	h = NewHandler(b, host.NewSurface(), WithResizer(v))

	rr = do(h, http.MethodPost, ResizePath, `{"width":640,"height":480}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"width":640,"height":480}`, rr.Body.String())
	assert.Len(t, redraws, 1)

	rr = do(h, http.MethodPost, ResizePath, `{"width":-1,"height":480}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(h, http.MethodPost, ResizePath, `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	w, hgt := v.Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, hgt)
}

func TestSubscribeEvents(t *testing.T) {
	h, _, s := newTestHandler()
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	s.Replace(map[string][]byte{"svg": []byte("<svg/>")})

	var sawDraw bool
	for lines.Scan() {
		if lines.Text() == "event: draw" {
			sawDraw = true
			require.True(t, lines.Scan())
			assert.Equal(t, "data: 1", lines.Text())
			break
		}
	}
	assert.True(t, sawDraw)
}

func TestMetricsMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sunburst_draws_total 1\n"))
	})
	h := NewHandler(host.NewBridge(), host.NewSurface(), WithMetrics(metrics))

	rr := do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sunburst_draws_total")

	rr = do(h, http.MethodGet, "/", "")
	assert.Contains(t, rr.Body.String(), "/chart.svg")
}
