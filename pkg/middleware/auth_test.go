package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fizato/federation/pkg/middleware"
)

const secret = "test-secret"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTokenRoundTrip(t *testing.T) {
	memberID := int64(12)
	raw, err := middleware.IssueToken(secret, "awa@example.org", middleware.RoleMember, &memberID, time.Hour)
	require.NoError(t, err)

	claims, err := middleware.ParseToken(secret, raw)
	require.NoError(t, err)
	assert.Equal(t, "awa@example.org", claims.Subject)
	assert.Equal(t, middleware.RoleMember, claims.Role)
	assert.False(t, claims.IsAdmin())
	require.NotNil(t, claims.MemberID)
	assert.Equal(t, memberID, *claims.MemberID)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := middleware.IssueToken(secret, "admin", middleware.RoleAdmin, nil, time.Hour)
	require.NoError(t, err)
	expired, err := middleware.IssueToken(secret, "admin", middleware.RoleAdmin, nil, -time.Minute)
	require.NoError(t, err)

	_, err = middleware.ParseToken("other-secret", valid)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	_, err = middleware.ParseToken(secret, expired)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	_, err = middleware.ParseToken(secret, "not.a.token")
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func protected() http.Handler {
	return middleware.AuthMiddleware(secret)(middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Subject", claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestAuthMiddleware(t *testing.T) {
	admin, err := middleware.IssueToken(secret, "root", middleware.RoleAdmin, nil, time.Hour)
	require.NoError(t, err)
	member, err := middleware.IssueToken(secret, "awa", middleware.RoleMember, nil, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + admin, want: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "member", header: "Bearer " + member, want: http.StatusForbidden},
		{name: "admin", header: "Bearer " + admin, want: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer " + admin, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "root", rec.Header().Get("X-Subject"))
			}
		})
	}
}

func TestRequireAdminWithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.RequireAdmin(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithClaims(t *testing.T) {
	claims := &middleware.Claims{Role: middleware.RoleAdmin}
	ctx := middleware.WithClaims(t.Context(), claims)
	got, ok := middleware.GetClaims(ctx)
	require.True(t, ok)
	assert.Same(t, claims, got)
}
