// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

type fakeVerifier struct {
	claims map[string]*AccessTokenClaims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	if claims, ok := f.claims[token]; ok {
		return claims, nil
	}
	return nil, core.ErrTokenInvalid
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorBearerHeader(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*AccessTokenClaims{
		"good-token": {UserID: "user-1", Role: "user"},
	}}

	var gotUserID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	Authenticator(verifier)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-1" || gotRole != "user" {
		t.Errorf("context = (%q, %q), want (user-1, user)", gotUserID, gotRole)
	}
}

func TestAuthenticatorCookieFallback(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*AccessTokenClaims{
		"cookie-token": {UserID: "user-2", Role: "user"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()

	Authenticator(verifier)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticatorRejections(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(r *http.Request)
		verifyErr  error
		wantStatus int
	}{
		{
			name:       "missing token",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Token abc")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer bad-token")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer old-token")
			},
			verifyErr:  core.ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeVerifier{err: tt.verifyErr}

			req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			Authenticator(verifier)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin passes", "admin", http.StatusOK},
		{"user forbidden", "user", http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
			if tt.role != "" {
				ctx := context.WithValue(req.Context(), UserRoleKey, tt.role)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			RequireAdmin(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestExtractTokenPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "cookie-token"})

	if got := ExtractToken(req); got != "header-token" {
		t.Errorf("ExtractToken = %q, want header-token", got)
	}
}
