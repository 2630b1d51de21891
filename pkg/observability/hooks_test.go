package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnDrawStart(ctx, "chart-1")
	p.OnHierarchyComplete(ctx, 3, 6, time.Millisecond, nil)
	p.OnLayoutComplete(ctx, 5, time.Millisecond)
	p.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	p.OnDrawError(ctx, "size")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "http")
	c.OnCacheSet(ctx, "artifact", 1024)

	// Host hooks
	b := NoopHostHooks{}
	b.OnSnapshot(ctx, 512)
	b.OnSnapshotReplaced(ctx)
	b.OnInteraction(ctx, "FILTER")

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "example.com", "/data.json")
	h.OnResponse(ctx, "GET", "example.com", "/data.json", 200, time.Second)
	h.OnError(ctx, "GET", "example.com", "/data.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Host().(NoopHostHooks); !ok {
		t.Error("Host() should return NoopHostHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHost := &testHostHooks{}
	SetHostHooks(customHost)
	if Host() != customHost {
		t.Error("SetHostHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHostHooks struct{ NoopHostHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
