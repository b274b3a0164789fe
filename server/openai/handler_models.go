package openai

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	result := &ModelList{
		Object: "list",
	}

	for _, m := range h.Models {
		result.Models = append(result.Models, Model{
			Object: "model",

			ID:      m.ID,
			OwnedBy: "imagine",
		})
	}

	writeJson(w, result)
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, m := range h.Models {
		if m.ID != id {
			continue
		}

		writeJson(w, &Model{
			Object: "model",

			ID:      m.ID,
			OwnedBy: "imagine",
		})

		return
	}

	writeError(w, http.StatusNotFound, errors.New("model not found"))
}
