// ABOUTME: Post ("postagem") store methods for SQLStore
// ABOUTME: Reads join the topic and author; UpdatedAt is stamped on every write

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const selectPosts = `
	SELECT p.id, p.titulo, p.texto, p.data, p.tema_id, p.usuario_id,
	       t.descricao, u.nome, u.usuario, u.foto
	FROM postagens p
	JOIN temas t ON t.id = p.tema_id
	LEFT JOIN usuarios u ON u.id = p.usuario_id
`

// nullableID maps the zero ID to SQL NULL.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreatePost inserts a post, setting post.ID and post.UpdatedAt.
func (s *SQLStore) CreatePost(ctx context.Context, post *Post) error {
	post.UpdatedAt = s.now().UTC()

	query := s.rebind(`
		INSERT INTO postagens (titulo, texto, data, tema_id, usuario_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := s.db.QueryRowContext(ctx, query,
		post.Title,
		post.Text,
		post.UpdatedAt.Format(time.RFC3339Nano),
		post.TopicID,
		nullableID(post.AuthorID),
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	s.logger.Debug("created post", "id", post.ID, "topic_id", post.TopicID)
	return nil
}

// GetPost retrieves a post with its topic and author.
func (s *SQLStore) GetPost(ctx context.Context, id int64) (*Post, error) {
	posts, err := s.queryPosts(ctx, s.rebind(selectPosts+` WHERE p.id = ?`), id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return posts[0], nil
}

// ListPosts returns all posts ordered by ID.
func (s *SQLStore) ListPosts(ctx context.Context) ([]*Post, error) {
	return s.queryPosts(ctx, selectPosts+` ORDER BY p.id`)
}

// SearchPosts returns posts whose title contains the given text, ignoring case.
func (s *SQLStore) SearchPosts(ctx context.Context, title string) ([]*Post, error) {
	return s.queryPosts(ctx,
		s.rebind(selectPosts+` WHERE `+s.lower("p.titulo")+` LIKE ? ESCAPE '\' ORDER BY p.id`),
		containsPattern(title),
	)
}

func (s *SQLStore) queryPosts(ctx context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var (
			p                           Post
			topic                       Topic
			dataStr                     string
			authorID                    sql.NullInt64
			authorName, login, authorPh sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Text, &dataStr, &p.TopicID, &authorID,
			&topic.Description, &authorName, &login, &authorPh); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}

		p.UpdatedAt, err = time.Parse(time.RFC3339Nano, dataStr)
		if err != nil {
			return nil, fmt.Errorf("parsing data: %w", err)
		}

		topic.ID = p.TopicID
		p.Topic = &topic

		if authorID.Valid {
			p.AuthorID = authorID.Int64
			if login.Valid {
				p.Author = &User{
					ID:    authorID.Int64,
					Name:  authorName.String,
					Login: login.String,
					Photo: authorPh.String,
				}
			}
		}

		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// UpdatePost replaces the mutable fields of an existing post and restamps UpdatedAt.
func (s *SQLStore) UpdatePost(ctx context.Context, post *Post) error {
	post.UpdatedAt = s.now().UTC()

	query := s.rebind(`
		UPDATE postagens
		SET titulo = ?, texto = ?, data = ?, tema_id = ?, usuario_id = ?
		WHERE id = ?
	`)

	res, err := s.db.ExecContext(ctx, query,
		post.Title,
		post.Text,
		post.UpdatedAt.Format(time.RFC3339Nano),
		post.TopicID,
		nullableID(post.AuthorID),
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

// DeletePost removes a post by ID.
func (s *SQLStore) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM postagens WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if err := rowsAffectedOrNotFound(res); err != nil {
		return err
	}

	s.logger.Debug("deleted post", "id", id)
	return nil
}
