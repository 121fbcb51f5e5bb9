// ABOUTME: Handlers for /usuarios: login, registration, update and lookups
// ABOUTME: Passwords are bcrypt-hashed before storage and never returned

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/2389/blogpessoal/internal/auth"
	"github.com/2389/blogpessoal/internal/metrics"
	"github.com/2389/blogpessoal/internal/store"
)

const msgLoginTaken = "Usuário já existe!"

// handleLogin handles POST /usuarios/logar.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.login.Login(r.Context(), req.Usuario, req.Senha)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.metrics.RecordLogin(metrics.LoginFailure)
		s.sendJSONError(w, http.StatusUnauthorized, "usuário ou senha inválidos")
		return
	}
	if err != nil {
		s.metrics.RecordLogin(metrics.LoginError)
		s.sendInternalError(w, "login failed", err)
		return
	}

	s.metrics.RecordLogin(metrics.LoginSuccess)
	s.sendJSON(w, http.StatusOK, loginResponse{
		ID:      res.User.ID,
		Nome:    res.User.Name,
		Usuario: res.User.Login,
		Foto:    res.User.Photo,
		Token:   res.Token,
	})
}

// handleRegister handles POST /usuarios/cadastrar.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateUser(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := s.hasher.Hash(req.Senha)
	if err != nil {
		s.sendInternalError(w, "failed to hash password", err)
		return
	}

	u := &store.User{
		Name:         req.Nome,
		Login:        strings.TrimSpace(req.Usuario),
		PasswordHash: hash,
		Photo:        req.Foto,
	}
	err = s.store.CreateUser(r.Context(), u)
	if errors.Is(err, store.ErrLoginExists) {
		s.sendJSONError(w, http.StatusBadRequest, msgLoginTaken)
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to create user", err)
		return
	}

	s.sendJSON(w, http.StatusCreated, toUserResponse(u))
}

// handleUpdateUser handles PUT /usuarios/atualizar.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID <= 0 {
		s.sendJSONError(w, http.StatusBadRequest, "O atributo id é Obrigatório!")
		return
	}
	if err := validateUser(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.GetUser(r.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "user not found")
			return
		}
		s.sendInternalError(w, "failed to get user", err)
		return
	}

	hash, err := s.hasher.Hash(req.Senha)
	if err != nil {
		s.sendInternalError(w, "failed to hash password", err)
		return
	}

	u := &store.User{
		ID:           req.ID,
		Name:         req.Nome,
		Login:        strings.TrimSpace(req.Usuario),
		PasswordHash: hash,
		Photo:        req.Foto,
	}
	err = s.store.UpdateUser(r.Context(), u)
	switch {
	case errors.Is(err, store.ErrLoginExists):
		s.sendJSONError(w, http.StatusBadRequest, msgLoginTaken)
		return
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		s.sendInternalError(w, "failed to update user", err)
		return
	}

	s.logger.Info("user updated", "user_id", u.ID, "by", p.UserID)
	s.sendJSON(w, http.StatusOK, toUserResponse(u))
}

// handleListUsers handles GET /usuarios/all.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.sendInternalError(w, "failed to list users", err)
		return
	}

	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleGetUser handles GET /usuarios/{id}.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.store.GetUser(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to get user", err)
		return
	}

	s.sendJSON(w, http.StatusOK, toUserResponse(u))
}
