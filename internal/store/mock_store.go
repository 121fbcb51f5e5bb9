// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without a database

package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu     sync.RWMutex
	users  map[int64]*User  // keyed by user ID
	logins map[string]int64 // keyed by login -> user ID
	topics map[int64]*Topic // keyed by topic ID
	posts  map[int64]*Post  // keyed by post ID
	nextID int64
	closes int

	// PingErr, when set, is returned by Ping.
	PingErr error
}

// Ensure MockStore implements Store.
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:  make(map[int64]*User),
		logins: make(map[string]int64),
		topics: make(map[int64]*Topic),
		posts:  make(map[int64]*Post),
	}
}

func (m *MockStore) allocID() int64 {
	m.nextID++
	return m.nextID
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	login := strings.TrimSpace(user.Login)
	if _, taken := m.logins[login]; taken {
		return ErrLoginExists
	}

	user.ID = m.allocID()
	u := *user
	u.Login = login
	m.users[u.ID] = &u
	m.logins[login] = u.ID
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(ctx context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *u
	return &result, nil
}

// GetUserByLogin retrieves a user by login name.
func (m *MockStore) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.logins[strings.TrimSpace(login)]
	if !ok {
		return nil, ErrNotFound
	}
	result := *m.users[id]
	return &result, nil
}

// UpdateUser replaces an existing user.
func (m *MockStore) UpdateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}

	login := strings.TrimSpace(user.Login)
	if owner, taken := m.logins[login]; taken && owner != user.ID {
		return ErrLoginExists
	}

	delete(m.logins, existing.Login)
	u := *user
	u.Login = login
	m.users[u.ID] = &u
	m.logins[login] = u.ID
	return nil
}

// ListUsers returns all users ordered by ID.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// CreateTopic stores a new topic.
func (m *MockStore) CreateTopic(ctx context.Context, topic *Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	topic.ID = m.allocID()
	t := *topic
	m.topics[t.ID] = &t
	return nil
}

// GetTopic retrieves a topic by ID.
func (m *MockStore) GetTopic(ctx context.Context, id int64) (*Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.topics[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *t
	return &result, nil
}

// ListTopics returns all topics ordered by ID.
func (m *MockStore) ListTopics(ctx context.Context) ([]*Topic, error) {
	return m.filterTopics(func(*Topic) bool { return true }), nil
}

// SearchTopics returns topics whose description contains the text, ignoring case.
func (m *MockStore) SearchTopics(ctx context.Context, description string) ([]*Topic, error) {
	needle := strings.ToLower(description)
	return m.filterTopics(func(t *Topic) bool {
		return strings.Contains(strings.ToLower(t.Description), needle)
	}), nil
}

func (m *MockStore) filterTopics(keep func(*Topic) bool) []*Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	topics := make([]*Topic, 0, len(m.topics))
	for _, t := range m.topics {
		if keep(t) {
			c := *t
			topics = append(topics, &c)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics
}

// UpdateTopic replaces an existing topic.
func (m *MockStore) UpdateTopic(ctx context.Context, topic *Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[topic.ID]; !ok {
		return ErrNotFound
	}
	t := *topic
	m.topics[t.ID] = &t
	return nil
}

// DeleteTopic removes a topic and its posts.
func (m *MockStore) DeleteTopic(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[id]; !ok {
		return ErrNotFound
	}
	delete(m.topics, id)
	for pid, p := range m.posts {
		if p.TopicID == id {
			delete(m.posts, pid)
		}
	}
	return nil
}

// CreatePost stores a new post. The topic must exist.
func (m *MockStore) CreatePost(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[post.TopicID]; !ok {
		return errors.New("mock store: topic does not exist")
	}

	post.ID = m.allocID()
	post.UpdatedAt = time.Now().UTC()
	p := *post
	p.Topic, p.Author = nil, nil
	m.posts[p.ID] = &p
	return nil
}

// GetPost retrieves a post with its topic and author populated.
func (m *MockStore) GetPost(ctx context.Context, id int64) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrate(p), nil
}

// ListPosts returns all posts ordered by ID.
func (m *MockStore) ListPosts(ctx context.Context) ([]*Post, error) {
	return m.filterPosts(func(*Post) bool { return true }), nil
}

// SearchPosts returns posts whose title contains the text, ignoring case.
func (m *MockStore) SearchPosts(ctx context.Context, title string) ([]*Post, error) {
	needle := strings.ToLower(title)
	return m.filterPosts(func(p *Post) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	}), nil
}

func (m *MockStore) filterPosts(keep func(*Post) bool) []*Post {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]*Post, 0, len(m.posts))
	for _, p := range m.posts {
		if keep(p) {
			posts = append(posts, m.hydrate(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

// hydrate copies a post and attaches its topic and author. Caller holds m.mu.
func (m *MockStore) hydrate(p *Post) *Post {
	c := *p
	if t, ok := m.topics[c.TopicID]; ok {
		tc := *t
		c.Topic = &tc
	}
	if u, ok := m.users[c.AuthorID]; ok {
		c.Author = &User{ID: u.ID, Name: u.Name, Login: u.Login, Photo: u.Photo}
	}
	return &c
}

// UpdatePost replaces an existing post.
func (m *MockStore) UpdatePost(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[post.ID]; !ok {
		return ErrNotFound
	}
	post.UpdatedAt = time.Now().UTC()
	p := *post
	p.Topic, p.Author = nil, nil
	m.posts[p.ID] = &p
	return nil
}

// DeletePost removes a post.
func (m *MockStore) DeletePost(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// Ping returns PingErr.
func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Close records the call; the data stays readable.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// CloseCount reports how many times Close has been called.
func (m *MockStore) CloseCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closes
}
