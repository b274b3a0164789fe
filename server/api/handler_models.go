package api

import (
	"net/http"
)

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	result := ModelList{
		Success: true,

		Models: make([]Model, 0, len(h.Models)),
	}

	for _, m := range h.Models {
		result.Models = append(result.Models, Model{
			ID: m.ID,

			Name:        m.Name,
			Description: m.Description,

			MaxWidth:  m.MaxWidth,
			MaxHeight: m.MaxHeight,

			DefaultWidth:  m.DefaultWidth,
			DefaultHeight: m.DefaultHeight,
		})
	}

	writeJson(w, result)
}
