// ABOUTME: Route table for the blog API
// ABOUTME: Public routes bypass the auth gate; every other route requires a principal

package api

import (
	"net/http"

	"github.com/2389/blogpessoal/internal/auth"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Public endpoints - no auth required
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)
	mux.HandleFunc("POST /usuarios/logar", s.handleLogin)
	mux.HandleFunc("POST /usuarios/cadastrar", s.handleRegister)

	if s.config.Metrics.Enabled {
		mux.Handle("GET "+s.config.Metrics.Path, s.metrics.Handler())
	}

	// Usuarios
	mux.Handle("PUT /usuarios/atualizar", s.protected(s.handleUpdateUser))
	mux.Handle("GET /usuarios/all", s.protected(s.handleListUsers))
	mux.Handle("GET /usuarios/{id}", s.protected(s.handleGetUser))

	// Temas
	mux.Handle("GET /temas", s.protected(s.handleListTopics))
	mux.Handle("GET /temas/{id}", s.protected(s.handleGetTopic))
	mux.Handle("GET /temas/descricao/{descricao}", s.protected(s.handleSearchTopics))
	mux.Handle("POST /temas", s.protected(s.handleCreateTopic))
	mux.Handle("PUT /temas", s.protected(s.handleUpdateTopic))
	mux.Handle("DELETE /temas/{id}", s.protected(s.handleDeleteTopic))

	// Postagens
	mux.Handle("GET /postagens", s.protected(s.handleListPosts))
	mux.Handle("GET /postagens/{id}", s.protected(s.handleGetPost))
	mux.Handle("GET /postagens/titulo/{titulo}", s.protected(s.handleSearchPosts))
	mux.Handle("POST /postagens", s.protected(s.handleCreatePost))
	mux.Handle("PUT /postagens", s.protected(s.handleUpdatePost))
	mux.Handle("DELETE /postagens/{id}", s.protected(s.handleDeletePost))
}

// protected runs h behind the auth gate and rejects unauthenticated requests.
func (s *Server) protected(h auth.PrincipalHandler) http.Handler {
	return s.gate.Middleware(auth.RequireAuthenticated(h))
}
