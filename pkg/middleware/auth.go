package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fizato/federation/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ClaimsKey is the context key for the authenticated caller's claims
	ClaimsKey ContextKey = "claims"
)

// Roles carried in the role claim
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identifies the caller. MemberID links the account to its member
// record, when there is one.
type Claims struct {
	Role     string `json:"role"`
	MemberID *int64 `json:"member_id,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller may modify records
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IssueToken signs an HS256 token for subject
func IssueToken(secret, subject, role string, memberID *int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:     role,
		MemberID: memberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates raw and returns its claims
func ParseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AuthMiddleware validates the bearer token and stores its claims in the context
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := ParseToken(secret, strings.TrimSpace(parts[1]))
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without the admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		if !claims.IsAdmin() {
			response.Forbidden(w, "Administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims extracts the caller's claims from the request context
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// WithClaims returns a context carrying claims
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
