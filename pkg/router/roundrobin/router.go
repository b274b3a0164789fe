package roundrobin

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/adrianliechti/imagine/pkg/provider"
	"github.com/adrianliechti/imagine/pkg/router"
)

var _ provider.Generator = (*Generator)(nil)

// Generator distributes requests randomly among healthy providers.
// Providers failing repeatedly are taken out by a circuit breaker.
type Generator struct {
	generators []provider.Generator
	stats      []*router.ProviderStats

	failureThreshold int
	recoveryTimeout  time.Duration
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
	}, nil
}

func (g *Generator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	index := g.selectProvider()

	g.stats[index].AddInflight(1)
	defer g.stats[index].AddInflight(-1)

	output, err := g.generators[index].Generate(ctx, model, input)

	g.stats[index].Record(err, 0, 0, g.failureThreshold)

	return output, err
}

func (g *Generator) selectProvider() int {
	candidates := make([]int, 0, len(g.generators))

	for i, stat := range g.stats {
		if stat.IsAvailable(g.recoveryTimeout) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return router.Fallback(g.stats)
	}

	return candidates[rand.Intn(len(candidates))]
}
