// ABOUTME: JSON request and response shapes for the blog API
// ABOUTME: Field names follow the public Portuguese contract (nome, usuario, tema, ...)

package api

import (
	"time"

	"github.com/2389/blogpessoal/internal/store"
)

type loginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

type loginResponse struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Usuario string `json:"usuario"`
	Foto    string `json:"foto"`
	Token   string `json:"token"`
}

type userRequest struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
	Foto    string `json:"foto"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Usuario string `json:"usuario"`
	Foto    string `json:"foto"`
}

func toUserResponse(u *store.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{ID: u.ID, Nome: u.Name, Usuario: u.Login, Foto: u.Photo}
}

type topicPayload struct {
	ID        int64  `json:"id"`
	Descricao string `json:"descricao"`
}

func toTopicPayload(t *store.Topic) *topicPayload {
	if t == nil {
		return nil
	}
	return &topicPayload{ID: t.ID, Descricao: t.Description}
}

// ref is a reference to another entity by ID, as in {"tema": {"id": 1}}.
type ref struct {
	ID int64 `json:"id"`
}

type postRequest struct {
	ID      int64  `json:"id"`
	Titulo  string `json:"titulo"`
	Texto   string `json:"texto"`
	Tema    *ref   `json:"tema"`
	Usuario *ref   `json:"usuario"`
}

type postResponse struct {
	ID        int64         `json:"id"`
	Titulo    string        `json:"titulo"`
	Texto     string        `json:"texto"`
	TextoHTML string        `json:"texto_html"`
	Data      time.Time     `json:"data"`
	Tema      *topicPayload `json:"tema"`
	Usuario   *userResponse `json:"usuario,omitempty"`
}

func (s *Server) toPostResponse(p *store.Post) *postResponse {
	html, err := s.render.Render(p.Text)
	if err != nil {
		s.logger.Warn("failed to render post markdown", "post_id", p.ID, "error", err)
	}
	return &postResponse{
		ID:        p.ID,
		Titulo:    p.Title,
		Texto:     p.Text,
		TextoHTML: html,
		Data:      p.UpdatedAt,
		Tema:      toTopicPayload(p.Topic),
		Usuario:   toUserResponse(p.Author),
	}
}

func (s *Server) toPostResponses(posts []*store.Post) []*postResponse {
	out := make([]*postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.toPostResponse(p))
	}
	return out
}
