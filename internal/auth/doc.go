// Package auth provides authentication for the blogpessoal HTTP API.
//
// # Authentication Methods
//
//   - JWT Bearer Tokens: Issued at login, HS256 signed with the configured
//     jwt_secret, carrying sub (the login name), iat and exp. Tokens live for
//     exactly TokenTTL (one hour) and are never stored server side.
//
//   - HTTP Basic: Optional fallback on protected routes. The login and
//     password are checked with bcrypt on every request.
//
// # Components
//
//   - TokenService: Issue, Parse, ExtractSubject, Validate
//   - BcryptHasher: Hash and Verify for stored secrets
//   - Resolver: Maps a login name to a Principal using the user store
//   - LoginService: Verifies credentials and issues tokens
//   - Gate: Per-request HTTP middleware
//
// # Gate
//
// For each request the gate takes exactly one terminal action: forward to the
// next handler, or answer itself.
//
//	no Authorization header        -> forward unauthenticated
//	Bearer <bad token>             -> 403 {"error":"forbidden"}
//	Bearer <token>, unknown login  -> 403 {"error":"forbidden"}
//	Bearer <valid token>           -> forward with Principal in context
//	Basic <bad credentials>        -> 401 with WWW-Authenticate
//
// A request whose context already carries a Principal is forwarded without
// resolving the principal again.
//
// # Principal Context
//
// The authenticated identity travels in the request context:
//
//	ctx = auth.WithPrincipal(ctx, p)
//	p := auth.FromContext(ctx) // nil when unauthenticated
//
// Protected handlers are written as PrincipalHandler functions and wrapped with
// RequireAuthenticated, which passes the Principal as an explicit argument:
//
//	mux.Handle("GET /temas", gate.Middleware(auth.RequireAuthenticated(h)))
//
// # Errors
//
// Token and principal failures (ErrMalformed, ErrInvalidSignature, ErrExpired,
// ErrUnsupported, ErrSubjectMismatch, ErrPrincipalNotFound) stay distinct for
// logging and metrics but all produce the same 403 response.
package auth
