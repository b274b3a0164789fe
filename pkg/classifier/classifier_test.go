package classifier_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/adrianliechti/imagine/pkg/classifier"
	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/stretchr/testify/require"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		message string
		kind    classifier.Kind
		status  int
	}{
		{"authentication failed", classifier.KindUnauthorized, 401},
		{"request failed with status 401", classifier.KindUnauthorized, 401},
		{"monthly quota reached", classifier.KindRateLimited, 429},
		{"rate limit exceeded", classifier.KindRateLimited, 429},
		{"status 429", classifier.KindRateLimited, 429},
		{"unknown model version", classifier.KindInvalidModel, 400},
		{"resource not found", classifier.KindInvalidModel, 400},
		{"connection reset by peer", classifier.KindProviderFailure, 500},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := classifier.Classify(errors.New(tt.message))

			require.Equal(t, tt.kind, err.Kind)
			require.Equal(t, tt.status, err.Status)
			require.NotEmpty(t, err.Message)
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	err := classifier.Classify(errors.New("model not found, 401 authentication error"))

	require.Equal(t, classifier.KindUnauthorized, err.Kind)
	require.Equal(t, 401, err.Status)

	err = classifier.Classify(errors.New("model usage limit"))

	require.Equal(t, classifier.KindRateLimited, err.Kind)
}

func TestClassifyStructured(t *testing.T) {
	tests := []struct {
		status int
		kind   classifier.Kind
	}{
		{401, classifier.KindUnauthorized},
		{403, classifier.KindUnauthorized},
		{429, classifier.KindRateLimited},
		{404, classifier.KindInvalidModel},
		{422, classifier.KindInvalidModel},
		{503, classifier.KindProviderFailure},
	}

	for _, tt := range tests {
		// message deliberately contradicts the status
		err := classifier.Classify(&provider.Error{
			Provider:   "replicate",
			StatusCode: tt.status,
			Message:    "authentication quota model",
		})

		require.Equal(t, tt.kind, err.Kind, "status %d", tt.status)
	}
}

func TestClassifyNotConfigured(t *testing.T) {
	err := classifier.Classify(fmt.Errorf("replicate: %w", provider.ErrNotConfigured))

	require.Equal(t, classifier.KindNotConfigured, err.Kind)
	require.Equal(t, 500, err.Status)
	require.Contains(t, err.Message, "not configured")
}

func TestClassifyPassthrough(t *testing.T) {
	input := classifier.InvalidInput("Prompt is required and must be a non-empty string")

	err := classifier.Classify(fmt.Errorf("wrapped: %w", input))

	require.Same(t, input, err)
	require.Equal(t, 400, err.Status)
}

func TestClassifyUnwrap(t *testing.T) {
	err := classifier.Classify(context.DeadlineExceeded)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, classifier.KindProviderFailure, err.Kind)
	require.Equal(t, context.DeadlineExceeded.Error(), err.Details())
}

func TestClassifyNil(t *testing.T) {
	require.Nil(t, classifier.Classify(nil))
}
