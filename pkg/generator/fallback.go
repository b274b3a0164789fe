package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adrianliechti/imagine/pkg/classifier"
)

// Fallback runs the request and retries it with the next model as long as
// the previous attempt was rejected as an invalid model.
func Fallback(ctx context.Context, g *Generator, req Request, models ...string) (*Response, error) {
	resp, err := g.Generate(ctx, req)

	current := req.Model

	if current == "" {
		current = g.model
	}

	for _, model := range models {
		var cerr *classifier.Error

		if !errors.As(err, &cerr) || cerr.Kind != classifier.KindInvalidModel {
			break
		}

		if model == current {
			continue
		}

		slog.Warn("model rejected, trying fallback", "model", current, "fallback", model)

		current = model
		req.Model = model

		resp, err = g.Generate(ctx, req)
	}

	return resp, err
}
