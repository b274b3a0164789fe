package api

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/imagine/pkg/auth"
)

// Authenticate admits a request as soon as one authorizer accepts it. The
// request is rejected with 401 when no authorizer found a credential (or
// none is configured) and with 403 when a presented credential was refused.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		missing := true

		for _, a := range h.Authorizers {
			ctx, err := a.Authenticate(r.Context(), r)

			if err == nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if !errors.Is(err, auth.ErrMissingCredentials) {
				missing = false
			}
		}

		if missing {
			h.writeError(w, http.StatusUnauthorized, auth.ErrMissingCredentials)
			return
		}

		h.writeError(w, http.StatusForbidden, auth.ErrInvalidCredentials)
	})
}
