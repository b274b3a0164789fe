package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adrianliechti/imagine/config"
	"github.com/adrianliechti/imagine/pkg/classifier"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config
}

func New(cfg *config.Config) (*Handler, error) {
	if cfg.Generator == nil {
		return nil, errors.New("no image generator configured")
	}

	h := &Handler{
		Config: cfg,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Get("/images/models", h.handleModels)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Get("/profile", h.handleProfile)

		r.Post("/images/generate", h.handleGenerate)
		r.Get("/images/image/{id}", h.handleImage)
	})
}

func writeJson(w http.ResponseWriter, v any) {
	writeJsonStatus(w, http.StatusOK, v)
}

func writeJsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

// writeError renders err as {"error": ...}. The underlying cause is only
// exposed in development mode.
func (h *Handler) writeError(w http.ResponseWriter, code int, err error) {
	resp := ErrorResponse{
		Error: http.StatusText(code),
	}

	if err != nil {
		resp.Error = err.Error()
	}

	var cerr *classifier.Error

	if h.Development && errors.As(err, &cerr) {
		resp.Details = cerr.Details()
	}

	writeJsonStatus(w, code, resp)
}
