package limiter

import (
	"context"

	"github.com/adrianliechti/imagine/pkg/provider"

	"golang.org/x/time/rate"
)

type Generator interface {
	Limiter
	provider.Generator
}

type limitedGenerator struct {
	limiter  *rate.Limiter
	provider provider.Generator
}

func NewGenerator(l *rate.Limiter, p provider.Generator) Generator {
	return &limitedGenerator{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedGenerator) limiterSetup() {
}

// Generate waits for a token before calling the provider. A canceled wait
// fails the call instead of bypassing the limit.
func (p *limitedGenerator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.provider.Generate(ctx, model, input)
}
