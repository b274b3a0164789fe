package adaptive

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/adrianliechti/imagine/pkg/provider"
	"github.com/adrianliechti/imagine/pkg/router"
)

var _ provider.Generator = (*Generator)(nil)

const (
	defaultLatencyAlpha = 0.3
)

// Generator prefers providers with low latency, few errors and little load,
// behind the same circuit breaker as the round-robin router.
type Generator struct {
	generators []provider.Generator
	stats      []*router.ProviderStats

	failureThreshold int
	recoveryTimeout  time.Duration
	latencyAlpha     float64
}

func NewGenerator(generators ...provider.Generator) (*Generator, error) {
	if len(generators) == 0 {
		return nil, errors.New("at least one generator is required")
	}

	stats := make([]*router.ProviderStats, len(generators))

	for i := range stats {
		stats[i] = router.NewProviderStats()
	}

	return &Generator{
		generators: generators,
		stats:      stats,

		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
		latencyAlpha:     defaultLatencyAlpha,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	index := g.selectProvider()

	g.stats[index].AddInflight(1)
	defer g.stats[index].AddInflight(-1)

	start := time.Now()

	output, err := g.generators[index].Generate(ctx, model, input)

	g.stats[index].Record(err, time.Since(start), g.latencyAlpha, g.failureThreshold)

	return output, err
}

// selectProvider picks a provider by weighted random choice.
// score = inflightFactor / (latency * (1 + errorRate*10))
func (g *Generator) selectProvider() int {
	candidates := make([]int, 0, len(g.generators))
	scores := make([]float64, 0, len(g.generators))

	for i, stat := range g.stats {
		if !stat.IsAvailable(g.recoveryTimeout) {
			continue
		}

		state, avgLatency, totalRequests, totalFailures, inflight := stat.GetMetrics()

		candidates = append(candidates, i)

		latencyMs := float64(avgLatency.Milliseconds())

		if latencyMs < 1 {
			latencyMs = 1
		}

		var errorRate float64

		if totalRequests > 0 {
			errorRate = float64(totalFailures) / float64(totalRequests)
		}

		inflightFactor := 1.0 / (1.0 + float64(inflight))

		score := inflightFactor / (latencyMs * (1 + errorRate*10))

		// limit probe traffic
		if state == router.CircuitHalfOpen {
			score *= 0.1
		}

		scores = append(scores, score)
	}

	if len(candidates) == 0 {
		return router.Fallback(g.stats)
	}

	return weightedSelect(candidates, scores)
}

func weightedSelect(candidates []int, scores []float64) int {
	if len(candidates) == 1 {
		return candidates[0]
	}

	var total float64

	for _, score := range scores {
		total += score
	}

	if total <= 0 {
		return candidates[rand.Intn(len(candidates))]
	}

	r := rand.Float64() * total

	var cumulative float64

	for i, score := range scores {
		cumulative += score

		if r <= cumulative {
			return candidates[i]
		}
	}

	return candidates[len(candidates)-1]
}
