// ABOUTME: Store interfaces and data types for blogpessoal persistence
// ABOUTME: Defines User, Topic and Post plus the per-entity store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrLoginExists is returned when a user login is already taken
var ErrLoginExists = errors.New("login already exists")

// User is a blog author and the credential record used for authentication.
// Login is unique and is the subject of issued tokens.
type User struct {
	ID           int64
	Name         string
	Login        string
	PasswordHash string // bcrypt hash, never serialized
	Photo        string
}

// Topic ("tema") groups posts.
type Topic struct {
	ID          int64
	Description string
}

// Post ("postagem") is a blog entry belonging to a topic and optionally an author.
type Post struct {
	ID        int64
	Title     string
	Text      string
	UpdatedAt time.Time // set by the store on every create/update
	TopicID   int64
	AuthorID  int64 // 0 when the post has no author

	// Populated on reads
	Topic  *Topic
	Author *User // PasswordHash is always empty
}

// UserStore is the credential store: user records keyed by id and login.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context) ([]*User, error)
}

// TopicStore persists topics.
type TopicStore interface {
	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopic(ctx context.Context, id int64) (*Topic, error)
	ListTopics(ctx context.Context) ([]*Topic, error)
	SearchTopics(ctx context.Context, description string) ([]*Topic, error)
	UpdateTopic(ctx context.Context, topic *Topic) error
	// DeleteTopic removes the topic and every post in it.
	DeleteTopic(ctx context.Context, id int64) error
}

// PostStore persists posts.
type PostStore interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	SearchPosts(ctx context.Context, title string) ([]*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int64) error
}

// Store is the full persistence surface used by the HTTP API.
type Store interface {
	UserStore
	TopicStore
	PostStore

	// Ping reports whether the backing database is reachable
	Ping(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
