package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adrianliechti/imagine/pkg/classifier"
	"github.com/adrianliechti/imagine/pkg/generator"
)

var errImageNotFound = errors.New("Image not found. Use the generate endpoint to create images.")

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, classifier.InvalidInput("Invalid request body"))
		return
	}

	input := generator.Request{
		Prompt: req.Prompt,
		Model:  req.Model,

		AspectRatio: req.AspectRatio,

		Width:  req.Width.Value(),
		Height: req.Height.Value(),

		OutputFormat: req.Format,

		NumOutputs:     req.NumOutputs.Value(),
		GuidanceScale:  req.GuidanceScale.Value(),
		InferenceSteps: req.InferenceSteps.Value(),
	}

	result, err := generator.Fallback(r.Context(), h.Generator, input, h.Fallbacks...)

	if err != nil {
		cerr := classifier.Classify(err)

		h.writeError(w, cerr.Status, cerr)
		return
	}

	writeJson(w, GenerateResponse{
		Success: true,
		Message: "Image generated successfully",

		Data: result,
	})
}

// Generated images are not stored, so there is nothing to look up.
func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, errImageNotFound)
}
