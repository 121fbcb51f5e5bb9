// ABOUTME: Unit tests for the JWT token service
// ABOUTME: Covers round trips, expiry, tampering, algorithm confusion and malformed input

package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testSecret is a 32-byte secret that meets the MinSecretLength requirement.
var testSecret = []byte("blogpessoal-test-secret-32-bytes")

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokenService(t *testing.T) (*TokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := NewTokenService(testSecret, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc, clock
}

func signMapClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService([]byte("too-short"))
	if err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, _ := newTestTokenService(t)

	for _, subject := range []string{"root@root.com", "a", "maria.silva@example.com.br", "ação@blog.dev"} {
		t.Run(subject, func(t *testing.T) {
			token, err := svc.Issue(subject)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}

			got, err := svc.ExtractSubject(token)
			if err != nil {
				t.Fatalf("ExtractSubject() error = %v", err)
			}
			if got != subject {
				t.Errorf("ExtractSubject() = %q, want %q", got, subject)
			}
		})
	}
}

func TestTokenService_IssueEmptySubject(t *testing.T) {
	svc, _ := newTestTokenService(t)
	if _, err := svc.Issue(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestTokenService_ClaimsLifetime(t *testing.T) {
	svc, clock := newTestTokenService(t)

	token, _ := svc.Issue("root@root.com")
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !claims.IssuedAt.Equal(clock.t) {
		t.Errorf("IssuedAt = %v, want %v", claims.IssuedAt, clock.t)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != TokenTTL {
		t.Errorf("ExpiresAt - IssuedAt = %v, want %v", got, TokenTTL)
	}
}

func TestTokenService_WireFormat(t *testing.T) {
	svc, _ := newTestTokenService(t)

	token, _ := svc.Issue("root@root.com")
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("decoding header: %v", err)
	}
	var header map[string]any
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if header["alg"] != "HS256" {
		t.Errorf("alg = %v, want HS256", header["alg"])
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	for _, claim := range []string{"sub", "iat", "exp"} {
		if _, ok := payload[claim]; !ok {
			t.Errorf("payload missing %q claim", claim)
		}
	}
}

func TestTokenService_Expiry(t *testing.T) {
	svc, clock := newTestTokenService(t)
	token, _ := svc.Issue("root@root.com")

	clock.Advance(TokenTTL - time.Second)
	if ok, err := svc.Validate(token, "root@root.com"); !ok || err != nil {
		t.Fatalf("Validate() just before expiry = (%v, %v), want (true, nil)", ok, err)
	}

	clock.Advance(2 * time.Second)
	ok, err := svc.Validate(token, "root@root.com")
	if ok || err != nil {
		t.Errorf("Validate() after expiry = (%v, %v), want (false, nil)", ok, err)
	}

	if _, err := svc.Parse(token); !errors.Is(err, ErrExpired) {
		t.Errorf("Parse() after expiry error = %v, want ErrExpired", err)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	svc, clock := newTestTokenService(t)
	token, _ := svc.Issue("root@root.com")

	clock.Advance(TokenTTL)
	if ok, err := svc.Validate(token, "root@root.com"); !ok || err != nil {
		t.Fatalf("Validate() at exactly iat+TTL = (%v, %v), want (true, nil)", ok, err)
	}

	clock.Advance(time.Second)
	if _, err := svc.Parse(token); !errors.Is(err, ErrExpired) {
		t.Errorf("Parse() one second past exp error = %v, want ErrExpired", err)
	}
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc, _ := newTestTokenService(t)
	token, _ := svc.Issue("root@root.com")

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := svc.Parse(tampered)
		if !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("signature byte %d altered: error = %v, want ErrInvalidSignature", i-sigStart, err)
		}
	}
}

func TestTokenService_SignatureCheckedBeforeExpiry(t *testing.T) {
	svc, clock := newTestTokenService(t)

	forged := signMapClaims(t, jwt.SigningMethodHS256, []byte("another-secret-that-is-32-bytes!"), jwt.MapClaims{
		"sub": "root@root.com",
		"iat": clock.t.Add(-2 * time.Hour).Unix(),
		"exp": clock.t.Add(-time.Hour).Unix(),
	})

	_, err := svc.Parse(forged)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Parse() error = %v, want ErrInvalidSignature", err)
	}
	if errors.Is(err, ErrExpired) {
		t.Error("forged token must not be reported as expired")
	}
}

func TestTokenService_ParseErrors(t *testing.T) {
	svc, clock := newTestTokenService(t)
	now := clock.t

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrMalformed},
		{name: "garbage", token: "garbage", wantErr: ErrMalformed},
		{name: "three junk segments", token: "a.b.c", wantErr: ErrMalformed},
		{name: "two segments", token: "eyJhbGciOiJIUzI1NiJ9.e30", wantErr: ErrMalformed},
		{
			name: "wrong secret",
			token: signMapClaims(t, jwt.SigningMethodHS256, []byte("another-secret-that-is-32-bytes!"), jwt.MapClaims{
				"sub": "root@root.com", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: ErrInvalidSignature,
		},
		{
			name: "alg none",
			token: signMapClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{
				"sub": "root@root.com", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: ErrUnsupported,
		},
		{
			name: "HS384",
			token: signMapClaims(t, jwt.SigningMethodHS384, testSecret, jwt.MapClaims{
				"sub": "root@root.com", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: ErrUnsupported,
		},
		{
			name: "unknown alg",
			token: base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"XX99","typ":"JWT"}`)) + "." +
				base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"root@root.com"}`)) + ".c2ln",
			wantErr: ErrUnsupported,
		},
		{
			name: "missing exp",
			token: signMapClaims(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"sub": "root@root.com", "iat": now.Unix(),
			}),
			wantErr: ErrMalformed,
		},
		{
			name: "missing sub",
			token: signMapClaims(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Parse(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenService_Validate(t *testing.T) {
	svc, _ := newTestTokenService(t)
	token, _ := svc.Issue("root@root.com")

	if ok, err := svc.Validate(token, "root@root.com"); !ok || err != nil {
		t.Errorf("Validate(matching) = (%v, %v), want (true, nil)", ok, err)
	}

	if ok, err := svc.Validate(token, "other@example.com"); ok || err != nil {
		t.Errorf("Validate(mismatch) = (%v, %v), want (false, nil)", ok, err)
	}

	ok, err := svc.Validate("garbage", "root@root.com")
	if ok || !errors.Is(err, ErrMalformed) {
		t.Errorf("Validate(garbage) = (%v, %v), want (false, ErrMalformed)", ok, err)
	}
}

func TestTokenService_Check(t *testing.T) {
	svc, _ := newTestTokenService(t)
	token, _ := svc.Issue("root@root.com")

	if err := svc.Check(token, "other@example.com"); !errors.Is(err, ErrSubjectMismatch) {
		t.Errorf("Check(mismatch) error = %v, want ErrSubjectMismatch", err)
	}
	if err := svc.Check(token, "root@root.com"); err != nil {
		t.Errorf("Check(matching) error = %v", err)
	}
}
