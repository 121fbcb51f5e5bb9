// ABOUTME: Topic ("tema") store methods for SQLStore
// ABOUTME: Deleting a topic deletes its posts in the same transaction

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateTopic inserts a topic and sets topic.ID.
func (s *SQLStore) CreateTopic(ctx context.Context, topic *Topic) error {
	query := s.rebind(`INSERT INTO temas (descricao) VALUES (?) RETURNING id`)
	if err := s.db.QueryRowContext(ctx, query, topic.Description).Scan(&topic.ID); err != nil {
		return fmt.Errorf("inserting topic: %w", err)
	}

	s.logger.Debug("created topic", "id", topic.ID)
	return nil
}

// GetTopic retrieves a topic by ID.
func (s *SQLStore) GetTopic(ctx context.Context, id int64) (*Topic, error) {
	var t Topic
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, descricao FROM temas WHERE id = ?`), id).
		Scan(&t.ID, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying topic: %w", err)
	}
	return &t, nil
}

// ListTopics returns all topics ordered by ID.
func (s *SQLStore) ListTopics(ctx context.Context) ([]*Topic, error) {
	return s.queryTopics(ctx, `SELECT id, descricao FROM temas ORDER BY id`)
}

// SearchTopics returns topics whose description contains the given text, ignoring case.
func (s *SQLStore) SearchTopics(ctx context.Context, description string) ([]*Topic, error) {
	return s.queryTopics(ctx,
		s.rebind(`SELECT id, descricao FROM temas WHERE `+s.lower("descricao")+` LIKE ? ESCAPE '\' ORDER BY id`),
		containsPattern(description),
	)
}

func (s *SQLStore) queryTopics(ctx context.Context, query string, args ...any) ([]*Topic, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var topics []*Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Description); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}
	return topics, nil
}

// UpdateTopic changes the description of an existing topic.
func (s *SQLStore) UpdateTopic(ctx context.Context, topic *Topic) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE temas SET descricao = ? WHERE id = ?`),
		topic.Description, topic.ID)
	if err != nil {
		return fmt.Errorf("updating topic: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

// DeleteTopic removes a topic and all of its posts.
func (s *SQLStore) DeleteTopic(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM postagens WHERE tema_id = ?`), id); err != nil {
		return fmt.Errorf("deleting topic posts: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM temas WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting topic: %w", err)
	}
	if err := rowsAffectedOrNotFound(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing topic delete: %w", err)
	}

	s.logger.Debug("deleted topic", "id", id)
	return nil
}
