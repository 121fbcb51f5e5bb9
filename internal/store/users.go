// ABOUTME: User (credential) store methods for SQLStore
// ABOUTME: Login is unique; duplicate logins surface as ErrLoginExists

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateUser inserts a new user and sets user.ID.
// Returns ErrLoginExists if the login is already taken.
func (s *SQLStore) CreateUser(ctx context.Context, user *User) error {
	query := s.rebind(`
		INSERT INTO usuarios (nome, usuario, senha, foto)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := s.db.QueryRowContext(ctx, query,
		user.Name,
		strings.TrimSpace(user.Login),
		user.PasswordHash,
		user.Photo,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLoginExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("created user", "id", user.ID, "login", user.Login)
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLStore) GetUser(ctx context.Context, id int64) (*User, error) {
	query := s.rebind(`SELECT id, nome, usuario, senha, foto FROM usuarios WHERE id = ?`)
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByLogin retrieves a user by login name.
// Returns ErrNotFound if no user has that login.
func (s *SQLStore) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, ErrNotFound
	}
	query := s.rebind(`SELECT id, nome, usuario, senha, foto FROM usuarios WHERE usuario = ?`)
	return s.scanUser(s.db.QueryRowContext(ctx, query, login))
}

func (s *SQLStore) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Photo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// UpdateUser replaces every mutable field of an existing user.
// Returns ErrNotFound for an unknown ID and ErrLoginExists when the new
// login belongs to another user.
func (s *SQLStore) UpdateUser(ctx context.Context, user *User) error {
	query := s.rebind(`
		UPDATE usuarios
		SET nome = ?, usuario = ?, senha = ?, foto = ?
		WHERE id = ?
	`)

	res, err := s.db.ExecContext(ctx, query,
		user.Name,
		strings.TrimSpace(user.Login),
		user.PasswordHash,
		user.Photo,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLoginExists
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if err := rowsAffectedOrNotFound(res); err != nil {
		return err
	}

	s.logger.Debug("updated user", "id", user.ID)
	return nil
}

// ListUsers returns all users ordered by ID.
func (s *SQLStore) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nome, usuario, senha, foto FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Photo); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}
