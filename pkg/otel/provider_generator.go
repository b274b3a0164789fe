package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/imagine/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.38.0/genaiconv"
	"go.opentelemetry.io/otel/trace"
)

type Generator interface {
	Observable
	provider.Generator
}

type observableGenerator struct {
	provider string

	generator provider.Generator

	operationDurationMetric genaiconv.ClientOperationDuration
}

func NewGenerator(provider string, p provider.Generator) Generator {
	meter := otel.Meter(instrumentationName)

	operationDurationMetric, _ := genaiconv.NewClientOperationDuration(meter)

	return &observableGenerator{
		generator: p,

		provider: provider,

		operationDurationMetric: operationDurationMetric,
	}
}

func (p *observableGenerator) otelSetup() {
}

func (p *observableGenerator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "generate "+model,
		trace.WithAttributes(EndUserAttrs(ctx)...),
		trace.WithAttributes(String("gen_ai.request.model", model)),
	)
	defer span.End()

	timestamp := time.Now()

	result, err := p.generator.Generate(ctx, model, input)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return result, err
	}

	duration := time.Since(timestamp).Seconds()

	providerName := genaiconv.ProviderNameAttr(p.provider)

	p.operationDurationMetric.Record(ctx, duration,
		genaiconv.OperationNameGenerateContent,
		providerName,
		p.operationDurationMetric.AttrRequestModel(model),
		p.operationDurationMetric.AttrResponseModel(model),
	)

	return result, nil
}
