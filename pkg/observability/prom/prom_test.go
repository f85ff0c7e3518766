package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := New(reg)
	m.OnLayoutStart(context.Background(), 3)

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n == 0 {
		t.Error("no metrics gathered")
	}
}

func TestPipelineHooks(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnLayoutStart(ctx, 12)
	m.OnLayoutComplete(ctx, 12, time.Millisecond, nil)
	m.OnLayoutComplete(ctx, 12, time.Millisecond, errors.New("boom"))
	m.OnRenderComplete(ctx, []string{"svg", "png"}, time.Second, nil)

	if got := testutil.ToFloat64(m.layouts.WithLabelValues("ok")); got != 1 {
		t.Errorf("layouts ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.layouts.WithLabelValues("error")); got != 1 {
		t.Errorf("layouts error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("svg,png", "ok")); got != 1 {
		t.Errorf("renders = %v, want 1", got)
	}
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnCacheMiss(ctx, "svg")
	m.OnCacheSet(ctx, "svg", 2048)
	m.OnCacheHit(ctx, "svg")
	m.OnCacheHit(ctx, "svg")

	tests := []struct {
		event string
		want  float64
	}{
		{"hit", 2},
		{"miss", 1},
		{"set", 1},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			if got := testutil.ToFloat64(m.cacheEvents.WithLabelValues("svg", tt.event)); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
	if got := testutil.ToFloat64(m.cacheBytes); got != 2048 {
		t.Errorf("cache bytes = %v, want 2048", got)
	}
}

func TestHTTPHooks(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnRequest(ctx, "POST", "/v1/render")
	if got := testutil.ToFloat64(m.httpInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnResponse(ctx, "POST", "/v1/render", 200, 5*time.Millisecond)
	if got := testutil.ToFloat64(m.httpInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/v1/render", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}
