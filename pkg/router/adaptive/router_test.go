package adaptive

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/imagine/pkg/provider"
	"github.com/adrianliechti/imagine/pkg/router"
)

// mockGenerator is a configurable mock for testing
type mockGenerator struct {
	delay  time.Duration
	err    error
	output string
	calls  atomic.Int64
}

func (m *mockGenerator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	m.calls.Add(1)

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if m.err != nil {
		return nil, m.err
	}

	return m.output, nil
}

func TestNewGenerator(t *testing.T) {
	_, err := NewGenerator()
	if err == nil {
		t.Error("expected error for empty generators")
	}
}

func TestLatencyTracking(t *testing.T) {
	mock := &mockGenerator{delay: 20 * time.Millisecond, output: "ok"}
	g, _ := NewGenerator(mock)

	for i := 0; i < 3; i++ {
		if _, err := g.Generate(context.Background(), "model", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	_, avgLatency, requests, failures, inflight := g.stats[0].GetMetrics()

	if avgLatency < 20*time.Millisecond {
		t.Errorf("expected latency >= 20ms, got %v", avgLatency)
	}

	if requests != 3 || failures != 0 || inflight != 0 {
		t.Errorf("unexpected metrics: requests=%d failures=%d inflight=%d", requests, failures, inflight)
	}
}

func TestPrefersFastProvider(t *testing.T) {
	slow := &mockGenerator{delay: 40 * time.Millisecond, output: "slow"}
	fast := &mockGenerator{delay: 1 * time.Millisecond, output: "fast"}

	g, _ := NewGenerator(slow, fast)

	// warm up latency estimates of both providers
	g.stats[0].RecordSuccess(40*time.Millisecond, 1)
	g.stats[1].RecordSuccess(1*time.Millisecond, 1)

	for i := 0; i < 40; i++ {
		g.Generate(context.Background(), "model", nil)
	}

	if fast.calls.Load() <= slow.calls.Load() {
		t.Errorf("expected fast provider to win, got fast=%d slow=%d", fast.calls.Load(), slow.calls.Load())
	}
}

func TestAvoidsFailingProvider(t *testing.T) {
	failing := &mockGenerator{err: errors.New("error")}
	healthy := &mockGenerator{output: "ok"}

	g, _ := NewGenerator(failing, healthy)

	for i := 0; i < 50; i++ {
		g.Generate(context.Background(), "model", nil)
	}

	if calls := failing.calls.Load(); calls > router.DefaultFailureThreshold {
		t.Errorf("expected circuit to stop traffic to failing provider, got %d calls", calls)
	}

	if healthy.calls.Load() < 40 {
		t.Errorf("expected most calls to healthy provider, got %d/50", healthy.calls.Load())
	}
}

func TestWeightedSelect(t *testing.T) {
	if got := weightedSelect([]int{3}, []float64{0}); got != 3 {
		t.Errorf("expected single candidate, got %d", got)
	}

	for i := 0; i < 20; i++ {
		if got := weightedSelect([]int{0, 1}, []float64{0, 1}); got != 1 {
			t.Errorf("expected candidate with all weight, got %d", got)
		}
	}
}
