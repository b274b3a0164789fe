package openai

import (
	"context"
	"testing"

	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/stretchr/testify/require"
)

func TestConvertSize(t *testing.T) {
	tests := []struct {
		model  string
		width  int
		height int
		want   string
	}{
		{"gpt-image-1", 1024, 1024, "1024x1024"},
		{"gpt-image-1", 1344, 768, "1536x1024"},
		{"gpt-image-1", 768, 1344, "1024x1536"},
		{"dall-e-3", 1344, 768, "1792x1024"},
		{"dall-e-3", 768, 1344, "1024x1792"},
		{"dall-e-2", 0, 0, "1024x1024"},
	}

	for _, tt := range tests {
		input := provider.Input{"width": tt.width, "height": tt.height}
		require.Equal(t, tt.want, convertSize(tt.model, input), "%s %dx%d", tt.model, tt.width, tt.height)
	}
}

func TestConvertFormat(t *testing.T) {
	require.Equal(t, "png", convertFormat("PNG"))
	require.Equal(t, "jpeg", convertFormat("jpg"))
	require.Equal(t, "webp", convertFormat("webp"))
	require.Equal(t, "", convertFormat("gif"))
}

func TestGenerateNotConfigured(t *testing.T) {
	g, err := NewGenerator("")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "gpt-image-1", provider.Input{"prompt": "test"})
	require.ErrorIs(t, err, provider.ErrNotConfigured)
}
