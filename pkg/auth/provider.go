package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

var (
	// ErrMissingCredentials means the request carried no credential at all.
	ErrMissingCredentials = errors.New("Access token required")

	// ErrInvalidCredentials means a credential was presented but rejected.
	ErrInvalidCredentials = errors.New("Invalid or expired token")
)

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

func User(ctx context.Context) string {
	user, _ := ctx.Value(UserContextKey).(string)
	return user
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailContextKey).(string)
	return email
}

func WithUser(ctx context.Context, user, email string) context.Context {
	if user != "" {
		ctx = context.WithValue(ctx, UserContextKey, user)
	}

	if email != "" {
		ctx = context.WithValue(ctx, EmailContextKey, email)
	}

	return ctx
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if header == "" {
		return "", ErrMissingCredentials
	}

	token, ok := strings.CutPrefix(header, "Bearer ")

	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingCredentials
	}

	return strings.TrimSpace(token), nil
}
