package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferremix/storefront/internal/testutil"
)

func TestSearchRequiresQuery(t *testing.T) {
	env := testutil.NewEnv(t)

	rec := env.DoJSON(http.MethodGet, "/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchUnavailableWithoutIndex(t *testing.T) {
	env := testutil.NewEnv(t)

	rec := env.DoJSON(http.MethodGet, "/search?q=hammer", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
