// Package store provides persistent storage for the blog using SQLite or Postgres.
//
// # Architecture
//
// The store package is interface driven, with one interface per resource:
//
//   - UserStore: Credential records ("usuarios") looked up by login
//   - TopicStore: Topics ("temas") that group posts
//   - PostStore: Posts ("postagens") with their topic and author
//
// Store composes all three plus Ping and Close. SQLStore implements Store on
// top of database/sql and speaks two dialects:
//
//   - sqlite: modernc.org/sqlite, a pure Go driver (no cgo)
//   - postgres: github.com/lib/pq
//
// Queries are written once with ? placeholders and rebound to $n for Postgres.
//
// # Data Models
//
//   - User: Name, unique Login, bcrypt PasswordHash and optional Photo
//   - Topic: Description
//   - Post: Title, Text, UpdatedAt, TopicID and optional AuthorID
//
// Reads of a Post populate Topic and Author. Author never carries the password hash.
//
// # SQLite Configuration
//
// Every pooled connection is opened with:
//
//	PRAGMA foreign_keys=ON;
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// # Error Handling
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrLoginExists: Another user already owns the login
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	s := store.NewMockStore()
//	// s implements Store
//
// Use NewSQLiteStore(filepath.Join(t.TempDir(), "blog.db")) for integration
// tests with real SQLite, and go-sqlmock with NewSQLStore for the Postgres dialect.
package store
