package otel

import (
	"context"

	"github.com/adrianliechti/imagine/pkg/auth"

	"go.opentelemetry.io/otel/attribute"
)

type KeyValue = attribute.KeyValue

func String(key string, val string) KeyValue {
	return attribute.String(key, val)
}

func EndUserAttrs(ctx context.Context) []KeyValue {
	var attrs []KeyValue

	if user := auth.User(ctx); user != "" {
		attrs = append(attrs, attribute.String("enduser.id", user))
	}

	if email := auth.Email(ctx); email != "" {
		attrs = append(attrs, attribute.String("enduser.email", email))
	}

	return attrs
}
