// ABOUTME: JWT token service that issues and verifies bearer tokens for logged-in users
// ABOUTME: HS256 only, one-hour lifetime, signature checked before any claim is trusted

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of every issued token.
const TokenTTL = time.Hour

// MinSecretLength is the minimum signing key size in bytes (HS256 block strength).
const MinSecretLength = 32

// Token errors. Every one of them is reported to clients as a generic forbidden response.
var (
	ErrMalformed         = errors.New("malformed token")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrExpired           = errors.New("token expired")
	ErrUnsupported       = errors.New("unsupported token algorithm")
	ErrSubjectMismatch   = errors.New("token subject mismatch")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Claims is the verified content of a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService mints and verifies HS256 tokens with a process-wide key.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service. The secret must be at least
// MinSecretLength bytes.
func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a signed token for subject, valid for TokenTTL from now.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature and then its claims.
// Errors wrap one of ErrMalformed, ErrInvalidSignature, ErrExpired or ErrUnsupported.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	// Claims carry whole seconds; the leeway makes a token expire only once
	// now is past exp, so it is still valid at exactly iat+TokenTTL.
	parser := jwt.NewParser(
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Second),
		jwt.WithStrictDecoding(),
	)

	var rc jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(token, err)
	}

	if rc.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrMalformed)
	}

	claims := &Claims{
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
	}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	return claims, nil
}

// classifyParseError maps jwt parser failures onto the package sentinels.
// The parser only validates claims once the signature has been verified,
// so ErrExpired is never reported for a forged token.
func classifyParseError(token *jwt.Token, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// unknown alg, "none", or any alg other than HS256
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		// A decodable header with a known alg means only the signature segment was bad.
		if token != nil && token.Method != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// ExtractSubject returns the subject of a valid token.
func (s *TokenService) ExtractSubject(raw string) (string, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Check is Validate with the reason kept: nil when the token is valid for
// expectedSubject, ErrSubjectMismatch or ErrExpired when it is well formed but
// not acceptable, and a structural error otherwise.
func (s *TokenService) Check(raw, expectedSubject string) error {
	claims, err := s.Parse(raw)
	if err != nil {
		return err
	}
	if claims.Subject != expectedSubject {
		return ErrSubjectMismatch
	}
	return nil
}

// Validate reports whether the token is valid and belongs to expectedSubject.
// Expiry and subject mismatch yield false without an error; only structural
// and signature failures are returned as errors.
func (s *TokenService) Validate(raw, expectedSubject string) (bool, error) {
	err := s.Check(raw, expectedSubject)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrExpired), errors.Is(err, ErrSubjectMismatch):
		return false, nil
	default:
		return false, err
	}
}
