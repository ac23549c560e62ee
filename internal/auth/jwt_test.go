// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/prasanth1122/coherencebackend/internal/config"
	"github.com/prasanth1122/coherencebackend/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenExpire:  2 * time.Minute,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "coherence-backend",
		Audience:           "coherence-api",
	}
}

func newTestManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()

	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		t.Fatalf("import key: %v", err)
	}

	manager, err := newManagerFromKey(key, cfg)
	if err != nil {
		t.Fatalf("newManagerFromKey: %v", err)
	}

	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())
	ctx := context.Background()

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
		Role:   "admin",
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	claims, err := manager.VerifyAccessToken(ctx, signed)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want user-123", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpire = -time.Minute
	manager := newTestManager(t, cfg)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
		Role:   "user",
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestAccessTokenTampered(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
		Role:   "user",
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	tampered := signed[:len(signed)-4] + "AAAA"

	_, err = manager.VerifyAccessToken(context.Background(), tampered)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenWrongKey(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())
	other := newTestManager(t, testJWTConfig())

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
		Role:   "user",
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	_, err = other.VerifyAccessToken(context.Background(), signed)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	data, err := manager.CreateRefreshToken("user-456")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	if data.Hash != core.HashToken(data.Token) {
		t.Error("Hash does not match HashToken of the signed token")
	}
	if !data.ExpiresAt.After(data.IssuedAt) {
		t.Error("ExpiresAt not after IssuedAt")
	}

	subject, err := manager.VerifyRefreshToken(context.Background(), data.Token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if subject != "user-456" {
		t.Errorf("subject = %q, want user-456", subject)
	}
}

// An access token presented as a refresh token must fail on the type
// claim even though the signature is valid.
func TestRefreshRejectsAccessToken(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
		Role:   "user",
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	_, err = manager.VerifyRefreshToken(context.Background(), signed)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessRejectsRefreshToken(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	data, err := manager.CreateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	_, err = manager.VerifyAccessToken(context.Background(), data.Token)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := manager.VerifyAccessToken(
			context.Background(),
			token,
		); !errors.Is(err, core.ErrTokenInvalid) {
			t.Errorf("token %q: error = %v, want ErrTokenInvalid", token, err)
		}
	}
}
