// ABOUTME: HTTP authentication gate that verifies bearer tokens on every request
// ABOUTME: Attaches the resolved principal to the request context or rejects with 403

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Gate decision outcomes, reported to the DecisionRecorder.
const (
	OutcomeNoToken           = "no_token"
	OutcomeVerified          = "verified"
	OutcomeAlreadyVerified   = "already_authenticated"
	OutcomeMalformed         = "malformed"
	OutcomeInvalidSignature  = "invalid_signature"
	OutcomeExpired           = "expired"
	OutcomeUnsupported       = "unsupported"
	OutcomeSubjectMismatch   = "subject_mismatch"
	OutcomePrincipalNotFound = "principal_not_found"
	OutcomeBasicVerified     = "basic_verified"
	OutcomeBasicRejected     = "basic_rejected"
	OutcomeError             = "error"
)

const (
	bearerPrefix = "Bearer "
	basicPrefix  = "Basic "
	basicRealm   = `Basic realm="blogpessoal"`
)

// TokenValidator is the part of TokenService the gate depends on.
type TokenValidator interface {
	ExtractSubject(raw string) (string, error)
	Check(raw, expectedSubject string) error
}

// DecisionRecorder counts gate decisions by outcome.
type DecisionRecorder interface {
	RecordGateDecision(outcome string)
}

// Gate is the per-request authentication filter.
type Gate struct {
	tokens   TokenValidator
	resolver PrincipalResolver
	basic    CredentialChecker
	recorder DecisionRecorder
	logger   *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithBasicAuth enables HTTP Basic credentials as an alternative to bearer tokens.
func WithBasicAuth(checker CredentialChecker) GateOption {
	return func(g *Gate) {
		g.basic = checker
	}
}

// WithDecisionRecorder reports every gate decision to rec.
func WithDecisionRecorder(rec DecisionRecorder) GateOption {
	return func(g *Gate) {
		g.recorder = rec
	}
}

// WithGateLogger sets the logger used for rejection diagnostics.
func WithGateLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates an authentication gate.
func NewGate(tokens TokenValidator, resolver PrincipalResolver, opts ...GateOption) *Gate {
	g := &Gate{
		tokens:   tokens,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Middleware wraps next with the gate. A request without credentials is
// forwarded unauthenticated; a request with bad credentials is rejected and
// next is never called. next is called at most once.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		switch {
		case strings.HasPrefix(header, bearerPrefix):
			g.serveBearer(w, r, next, strings.TrimPrefix(header, bearerPrefix))
		case g.basic != nil && strings.HasPrefix(header, basicPrefix):
			g.serveBasic(w, r, next)
		default:
			g.record(OutcomeNoToken)
			next.ServeHTTP(w, r)
		}
	})
}

func (g *Gate) serveBearer(w http.ResponseWriter, r *http.Request, next http.Handler, token string) {
	subject, err := g.tokens.ExtractSubject(token)
	if err != nil {
		g.reject(w, r, err)
		return
	}

	if FromContext(r.Context()) != nil {
		g.record(OutcomeAlreadyVerified)
		next.ServeHTTP(w, r)
		return
	}

	principal, err := g.resolver.Resolve(r.Context(), subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			g.reject(w, r, err)
			return
		}
		g.fail(w, r, err)
		return
	}

	if err := g.tokens.Check(token, principal.Login); err != nil {
		g.reject(w, r, err)
		return
	}

	g.record(OutcomeVerified)
	next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
}

func (g *Gate) serveBasic(w http.ResponseWriter, r *http.Request, next http.Handler) {
	login, password, ok := r.BasicAuth()
	if !ok {
		g.challenge(w, r, "undecodable basic credentials")
		return
	}

	if FromContext(r.Context()) != nil {
		g.record(OutcomeAlreadyVerified)
		next.ServeHTTP(w, r)
		return
	}

	u, err := g.basic.Authenticate(r.Context(), login, password)
	if errors.Is(err, ErrInvalidCredentials) {
		g.challenge(w, r, err.Error())
		return
	}
	if err != nil {
		g.fail(w, r, err)
		return
	}

	g.record(OutcomeBasicVerified)
	next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), newPrincipal(u))))
}

// reject answers 403 without revealing which check failed.
func (g *Gate) reject(w http.ResponseWriter, r *http.Request, reason error) {
	outcome := outcomeFor(reason)
	g.record(outcome)
	g.logger.Debug("request rejected", "path", r.URL.Path, "outcome", outcome, "reason", reason)
	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func (g *Gate) challenge(w http.ResponseWriter, r *http.Request, reason string) {
	g.record(OutcomeBasicRejected)
	g.logger.Debug("basic credentials rejected", "path", r.URL.Path, "reason", reason)
	w.Header().Set("WWW-Authenticate", basicRealm)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (g *Gate) fail(w http.ResponseWriter, r *http.Request, err error) {
	g.record(OutcomeError)
	g.logger.Error("authentication failed", "path", r.URL.Path, "error", err)
	writeJSONError(w, http.StatusInternalServerError, "internal server error")
}

func (g *Gate) record(outcome string) {
	if g.recorder != nil {
		g.recorder.RecordGateDecision(outcome)
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return OutcomeExpired
	case errors.Is(err, ErrInvalidSignature):
		return OutcomeInvalidSignature
	case errors.Is(err, ErrUnsupported):
		return OutcomeUnsupported
	case errors.Is(err, ErrSubjectMismatch):
		return OutcomeSubjectMismatch
	case errors.Is(err, ErrPrincipalNotFound):
		return OutcomePrincipalNotFound
	default:
		return OutcomeMalformed
	}
}

// PrincipalHandler is an HTTP handler that receives the authenticated principal explicitly.
type PrincipalHandler func(w http.ResponseWriter, r *http.Request, p *Principal)

// RequireAuthenticated adapts h into an http.Handler that rejects requests
// without a principal with 403. Must be used after Gate.Middleware.
func RequireAuthenticated(h PrincipalHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := FromContext(r.Context())
		if p == nil {
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		h(w, r, p)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
