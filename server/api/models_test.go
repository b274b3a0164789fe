package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRequestNumbers(t *testing.T) {
	var req GenerateRequest

	err := json.Unmarshal([]byte(`{
		"prompt": "a fox",
		"width": "800",
		"height": 600,
		"num_outputs": null,
		"guidance_scale": "4.5",
		"num_inference_steps": "many"
	}`), &req)

	require.NoError(t, err)

	require.Equal(t, 800, *req.Width.Value())
	require.Equal(t, 600, *req.Height.Value())
	require.Nil(t, req.NumOutputs.Value())
	require.Equal(t, 4.5, *req.GuidanceScale.Value())
	require.Nil(t, req.InferenceSteps.Value())
}
