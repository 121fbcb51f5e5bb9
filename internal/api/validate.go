// ABOUTME: Request validation rules for usuarios, temas and postagens
// ABOUTME: Each validator returns the first violated rule as a user-facing message

package api

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field limits, counted in characters.
const (
	tituloMin = 5
	tituloMax = 100
	textoMin  = 10
	textoMax  = 1000
	senhaMin  = 8
	fotoMax   = 5000
)

func validateUser(u *userRequest) error {
	if strings.TrimSpace(u.Nome) == "" {
		return errors.New("O atributo nome é Obrigatório!")
	}
	if strings.TrimSpace(u.Usuario) == "" {
		return errors.New("O atributo usuário é Obrigatório!")
	}
	if !isEmail(u.Usuario) {
		return errors.New("O atributo usuário deve ser um email válido!")
	}
	if utf8.RuneCountInString(u.Senha) < senhaMin {
		return errors.New("A senha deve ter no mínimo 8 caracteres")
	}
	if utf8.RuneCountInString(u.Foto) > fotoMax {
		return errors.New("O link da foto não pode ser maior do que 5000 caracteres")
	}
	return nil
}

// isEmail accepts a bare address such as "root@root.com" but not "Root <root@root.com>".
func isEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validateTopic(t *topicPayload) error {
	if strings.TrimSpace(t.Descricao) == "" {
		return errors.New("O atributo descrição é obrigatório")
	}
	return nil
}

func validatePost(p *postRequest) error {
	if strings.TrimSpace(p.Titulo) == "" {
		return errors.New("O atributo título é Obrigatório!")
	}
	if n := utf8.RuneCountInString(p.Titulo); n < tituloMin || n > tituloMax {
		return errors.New("O atributo título deve conter no mínimo 05 e no máximo 100 caracteres")
	}
	if strings.TrimSpace(p.Texto) == "" {
		return errors.New("O atributo texto é Obrigatório!")
	}
	if n := utf8.RuneCountInString(p.Texto); n < textoMin || n > textoMax {
		return errors.New("O atributo texto deve conter no mínimo 10 e no máximo 1000 caracteres")
	}
	if p.Tema == nil || p.Tema.ID == 0 {
		return errors.New("O atributo tema é Obrigatório!")
	}
	return nil
}
