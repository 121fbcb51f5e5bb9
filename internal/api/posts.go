// ABOUTME: Handlers for /postagens CRUD and title search
// ABOUTME: A post must reference an existing topic; the author defaults to the caller

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/2389/blogpessoal/internal/auth"
	"github.com/2389/blogpessoal/internal/store"
)

const (
	msgTopicMissing = "Tema não existe!"
	msgUserMissing  = "Usuário não existe!"
)

// errBadReference marks a request naming a topic or user that does not exist.
type errBadReference struct{ msg string }

func (e errBadReference) Error() string { return e.msg }

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		s.sendInternalError(w, "failed to list posts", err)
		return
	}
	s.sendJSON(w, http.StatusOK, s.toPostResponses(posts))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.store.GetPost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to get post", err)
		return
	}
	s.sendJSON(w, http.StatusOK, s.toPostResponse(p))
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	posts, err := s.store.SearchPosts(r.Context(), r.PathValue("titulo"))
	if err != nil {
		s.sendInternalError(w, "failed to search posts", err)
		return
	}
	s.sendJSON(w, http.StatusOK, s.toPostResponses(posts))
}

// resolveReferences checks that the referenced topic exists and picks the
// author: the user named in the request, or the caller when none is given.
func (s *Server) resolveReferences(ctx context.Context, req *postRequest, caller *auth.Principal) (authorID int64, err error) {
	if _, err := s.store.GetTopic(ctx, req.Tema.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, errBadReference{msgTopicMissing}
		}
		return 0, err
	}

	if req.Usuario == nil || req.Usuario.ID == 0 {
		return caller.UserID, nil
	}
	if _, err := s.store.GetUser(ctx, req.Usuario.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, errBadReference{msgUserMissing}
		}
		return 0, err
	}
	return req.Usuario.ID, nil
}

// sendStoredPost reloads a post so the response carries its topic and author.
func (s *Server) sendStoredPost(ctx context.Context, w http.ResponseWriter, id int64, status int) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		s.sendInternalError(w, "failed to reload post", err)
		return
	}
	s.sendJSON(w, status, s.toPostResponse(p))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, caller *auth.Principal) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePost(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	authorID, err := s.resolveReferences(r.Context(), &req, caller)
	var badRef errBadReference
	if errors.As(err, &badRef) {
		s.sendJSONError(w, http.StatusBadRequest, badRef.msg)
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to resolve post references", err)
		return
	}

	p := &store.Post{
		Title:    req.Titulo,
		Text:     req.Texto,
		TopicID:  req.Tema.ID,
		AuthorID: authorID,
	}
	if err := s.store.CreatePost(r.Context(), p); err != nil {
		s.sendInternalError(w, "failed to create post", err)
		return
	}

	s.sendStoredPost(r.Context(), w, p.ID, http.StatusCreated)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, caller *auth.Principal) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePost(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.GetPost(r.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		s.sendInternalError(w, "failed to get post", err)
		return
	}

	authorID, err := s.resolveReferences(r.Context(), &req, caller)
	var badRef errBadReference
	if errors.As(err, &badRef) {
		s.sendJSONError(w, http.StatusBadRequest, badRef.msg)
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to resolve post references", err)
		return
	}

	p := &store.Post{
		ID:       req.ID,
		Title:    req.Titulo,
		Text:     req.Texto,
		TopicID:  req.Tema.ID,
		AuthorID: authorID,
	}
	err = s.store.UpdatePost(r.Context(), p)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to update post", err)
		return
	}

	s.sendStoredPost(r.Context(), w, p.ID, http.StatusOK)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.DeletePost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to delete post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
