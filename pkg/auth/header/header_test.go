package header_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/imagine/pkg/auth"
	"github.com/adrianliechti/imagine/pkg/auth/header"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p, err := header.New()
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-User", "jane@example.com")

	ctx, err := p.Authenticate(context.Background(), r)
	require.NoError(t, err)

	require.Equal(t, "jane@example.com", auth.User(ctx))
	require.Equal(t, "jane@example.com", auth.Email(ctx))
}

func TestAuthenticateCustomHeaders(t *testing.T) {
	p, err := header.New(header.WithUserHeader("X-User"), header.WithEmailHeader("X-Email"))
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-User", "jane")
	r.Header.Set("X-Email", "jane@example.com")

	ctx, err := p.Authenticate(context.Background(), r)
	require.NoError(t, err)

	require.Equal(t, "jane", auth.User(ctx))
	require.Equal(t, "jane@example.com", auth.Email(ctx))
}

func TestAuthenticateMissing(t *testing.T) {
	p, err := header.New()
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)

	_, err = p.Authenticate(context.Background(), r)
	require.ErrorIs(t, err, auth.ErrMissingCredentials)
}
