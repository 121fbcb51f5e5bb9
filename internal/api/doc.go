// Package api implements the blogpessoal HTTP API.
//
// # Routes
//
// Public:
//
//	GET  /health                  liveness
//	GET  /health/ready            store ping
//	POST /usuarios/logar          login, returns a bearer token
//	POST /usuarios/cadastrar      registration
//	GET  /metrics                 Prometheus exposition (when metrics.enabled)
//
// Protected (Authorization: Bearer <token> or Basic):
//
//	PUT    /usuarios/atualizar
//	GET    /usuarios/all
//	GET    /usuarios/{id}
//	GET    /temas, /temas/{id}, /temas/descricao/{descricao}
//	POST   /temas
//	PUT    /temas
//	DELETE /temas/{id}
//	GET    /postagens, /postagens/{id}, /postagens/titulo/{titulo}
//	POST   /postagens
//	PUT    /postagens
//	DELETE /postagens/{id}
//
// Protected routes answer 403 {"error":"forbidden"} for missing, invalid or
// expired tokens. Every error body has the form {"error": "..."}.
//
// # Middleware
//
// Requests pass through, outermost first: request ID and access logging,
// CORS (preflight OPTIONS answered with 204), the ServeMux, and for protected
// routes the auth gate followed by auth.RequireAuthenticated.
//
// # Lifecycle
//
// Run listens on server.http_addr and shuts down gracefully within
// server.shutdown_timeout once its context is canceled. Shutdown closes the store.
package api
