// ABOUTME: Handlers for /temas CRUD and description search
// ABOUTME: Deleting a topic also deletes its posts

package api

import (
	"errors"
	"net/http"

	"github.com/2389/blogpessoal/internal/auth"
	"github.com/2389/blogpessoal/internal/store"
)

func (s *Server) sendTopics(w http.ResponseWriter, topics []*store.Topic) {
	out := make([]*topicPayload, 0, len(topics))
	for _, t := range topics {
		out = append(out, toTopicPayload(t))
	}
	s.sendJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	topics, err := s.store.ListTopics(r.Context())
	if err != nil {
		s.sendInternalError(w, "failed to list topics", err)
		return
	}
	s.sendTopics(w, topics)
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.store.GetTopic(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to get topic", err)
		return
	}
	s.sendJSON(w, http.StatusOK, toTopicPayload(t))
}

func (s *Server) handleSearchTopics(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	topics, err := s.store.SearchTopics(r.Context(), r.PathValue("descricao"))
	if err != nil {
		s.sendInternalError(w, "failed to search topics", err)
		return
	}
	s.sendTopics(w, topics)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	var req topicPayload
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateTopic(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &store.Topic{Description: req.Descricao}
	if err := s.store.CreateTopic(r.Context(), t); err != nil {
		s.sendInternalError(w, "failed to create topic", err)
		return
	}
	s.sendJSON(w, http.StatusCreated, toTopicPayload(t))
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	var req topicPayload
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateTopic(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &store.Topic{ID: req.ID, Description: req.Descricao}
	err := s.store.UpdateTopic(r.Context(), t)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to update topic", err)
		return
	}
	s.sendJSON(w, http.StatusOK, toTopicPayload(t))
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.DeleteTopic(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		s.sendInternalError(w, "failed to delete topic", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
