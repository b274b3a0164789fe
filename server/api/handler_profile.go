package api

import (
	"net/http"

	"github.com/adrianliechti/imagine/pkg/auth"
)

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	writeJson(w, ProfileResponse{
		Message: "Profile accessed successfully",

		User: User{
			ID:    auth.User(ctx),
			Email: auth.Email(ctx),
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, MessageResponse{
		Message: "Server is running",
	})
}
