package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferremix/storefront/internal/service/token"
	"github.com/ferremix/storefront/internal/testutil"
)

func refreshOnly(cookies []*http.Cookie) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range cookies {
		if ck.Name == token.RefreshCookie {
			out = append(out, ck)
		}
	}
	return out
}

func TestMissingAccessCookieRotatesRefresh(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateUser("shopper@example.com", "pw123456", false)
	cookies := refreshOnly(env.Login("shopper@example.com", "pw123456"))
	require.Len(t, cookies, 1)

	rec := env.DoJSON(http.MethodGet, "/orders", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Rotation set a fresh cookie pair.
	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	require.Contains(t, names, token.AccessCookie)
	require.Contains(t, names, token.RefreshCookie)

	// The rotated-out refresh token is dead.
	rec = env.DoJSON(http.MethodGet, "/orders", nil, cookies...)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGarbageAccessCookieRejected(t *testing.T) {
	env := testutil.NewEnv(t)

	rec := env.DoJSON(http.MethodGet, "/orders", nil, &http.Cookie{
		Name:  token.AccessCookie,
		Value: "not-a-jwt",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoCookiesIsUnauthorized(t *testing.T) {
	env := testutil.NewEnv(t)

	rec := env.DoJSON(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
