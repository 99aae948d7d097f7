package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/service/token"
	"github.com/ferremix/storefront/internal/testutil"
)

func newService(t *testing.T) (*token.Service, *models.User) {
	t.Helper()
	st := testutil.NewStore(t)
	u := &models.User{Email: "shopper@example.com", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return &token.Service{
		Store:         st,
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}, u
}

func TestAccessRoundTrip(t *testing.T) {
	svc, u := newService(t)

	raw, _, err := svc.IssueAccess(u)
	require.NoError(t, err)

	claims, err := svc.ParseAccess(raw)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.True(t, claims.IsAdmin)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	svc, u := newService(t)
	other := &token.Service{JWTSecret: []byte("other-secret")}

	raw, _, err := other.IssueAccess(u)
	require.NoError(t, err)

	_, err = svc.ParseAccess(raw)
	require.Error(t, err)
}

func TestParseRejectsRefreshAsAccess(t *testing.T) {
	svc, u := newService(t)

	refresh, _, err := svc.IssueRefresh(context.Background(), u)
	require.NoError(t, err)

	// Signed with the refresh secret, so the access parser refuses it.
	_, err = svc.ParseAccess(refresh)
	require.Error(t, err)
}

func TestRotateIsSingleUse(t *testing.T) {
	svc, u := newService(t)
	ctx := context.Background()

	refresh, _, err := svc.IssueRefresh(ctx, u)
	require.NoError(t, err)

	access, next, claims, err := svc.Rotate(ctx, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, next)
	require.NotEqual(t, refresh, next)
	require.Equal(t, u.ID, claims.UserID)

	// The rotated-out token is revoked and cannot be replayed.
	_, _, _, err = svc.Rotate(ctx, refresh)
	require.ErrorIs(t, err, token.ErrInvalidToken)

	// The replacement still works.
	_, _, _, err = svc.Rotate(ctx, next)
	require.NoError(t, err)
}

func TestRevokedTokenCannotRotate(t *testing.T) {
	svc, u := newService(t)
	ctx := context.Background()

	refresh, _, err := svc.IssueRefresh(ctx, u)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, refresh))

	_, _, _, err = svc.Rotate(ctx, refresh)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestRotateRejectsAccessToken(t *testing.T) {
	svc, u := newService(t)

	access, _, err := svc.IssueAccess(u)
	require.NoError(t, err)

	_, _, _, err = svc.Rotate(context.Background(), access)
	require.Error(t, err)
}
