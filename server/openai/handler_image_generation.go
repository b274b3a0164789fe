package openai

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/adrianliechti/imagine/pkg/classifier"
	"github.com/adrianliechti/imagine/pkg/generator"
)

func (h *Handler) handleImageGeneration(w http.ResponseWriter, r *http.Request) {
	var req ImageCreateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input := generator.Request{
		Prompt: req.Prompt,
		Model:  req.Model,

		OutputFormat: req.OutputFormat,

		NumOutputs: req.N,
	}

	if req.Size != "" && req.Size != "auto" {
		ratio, width, height, ok := convertSize(req.Size)

		if !ok {
			writeError(w, http.StatusBadRequest, classifier.InvalidInput("Invalid size: "+req.Size))
			return
		}

		input.AspectRatio = ratio

		if ratio == generator.AspectRatioCustom {
			input.Width = &width
			input.Height = &height
		}
	}

	result, err := generator.Fallback(r.Context(), h.Generator, input, h.Fallbacks...)

	if err != nil {
		cerr := classifier.Classify(err)

		writeError(w, cerr.Status, cerr)
		return
	}

	list := ImageList{
		Created: result.GeneratedAt.Unix(),
	}

	if req.ResponseFormat == "url" {
		for _, locator := range result.Locators {
			list.Images = append(list.Images, Image{
				URL: locator,
			})
		}
	} else {
		for _, resource := range result.Resources {
			if resource.Failed() {
				continue
			}

			list.Images = append(list.Images, Image{
				B64JSON: convertBase64(resource.Embedded),
			})
		}
	}

	writeJson(w, list)
}

// convertSize maps "WxH" onto a preset aspect ratio or a custom size.
func convertSize(size string) (string, int, int, bool) {
	w, h, ok := strings.Cut(size, "x")

	if !ok {
		return "", 0, 0, false
	}

	width, err := strconv.Atoi(w)

	if err != nil || width <= 0 {
		return "", 0, 0, false
	}

	height, err := strconv.Atoi(h)

	if err != nil || height <= 0 {
		return "", 0, 0, false
	}

	if ratio, ok := generator.AspectRatio(width, height); ok {
		return ratio, width, height, true
	}

	return generator.AspectRatioCustom, width, height, true
}

func convertBase64(data string) string {
	if _, payload, ok := strings.Cut(data, ";base64,"); ok {
		return payload
	}

	return data
}
