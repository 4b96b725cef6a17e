package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ecomstore/pkg/auth"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRequireSignInMissingHeader(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RequireSignIn(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
	assert.Equal(t, false, body(t, rec)["success"])
}

func TestRequireSignInBadToken(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	RequireSignIn(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireSignInValidToken(t *testing.T) {
	token, err := auth.GenerateToken("64f1c0ffee0000000000abcd")
	require.NoError(t, err)

	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	for _, header := range []string{token, "Bearer " + token} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)

		RequireSignIn(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "64f1c0ffee0000000000abcd", gotID)
	}
}

func roleFinderReturning(role int) RoleFinder {
	return func(ctx context.Context, userID string) (int, error) { return role, nil }
}

func adminRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(WithUserID(req.Context(), "64f1c0ffee0000000000abcd"))
}

func TestIsAdminAllowsAdmins(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	IsAdmin(roleFinderReturning(1))(next).ServeHTTP(rec, adminRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestIsAdminLegacyDenialIs200(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	IsAdmin(roleFinderReturning(0))(next).ServeHTTP(rec, adminRequest())

	// The legacy storefront reads success=false out of a 200.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *called)
	got := body(t, rec)
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "Admin resource. Access denied", got["message"])
}

func TestIsAdminStrictDenialIs403(t *testing.T) {
	t.Setenv("AUTHZ_STRICT", "true")

	next, called := okHandler()
	rec := httptest.NewRecorder()

	IsAdmin(roleFinderReturning(0))(next).ServeHTTP(rec, adminRequest())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)
}

func TestIsAdminWithoutIdentity(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	IsAdmin(roleFinderReturning(1))(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}
