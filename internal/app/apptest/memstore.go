// Package apptest provides in-memory stores for exercising the app services
// without a database.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"conduit-api/internal/model"
	"conduit-api/internal/repository"
)

type article struct {
	authorID uint
	tags     []string
}

// MemStore implements app.UserStore, app.FollowStore and app.TagStore with
// the same uniqueness and ordering rules as the gorm repositories.
type MemStore struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]*model.User
	follows  map[[2]uint]struct{}
	articles []article

	// FoldUsernames makes username lookups case-insensitive, like MySQL's
	// default utf8mb4 collation.
	FoldUsernames bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:   map[uint]*model.User{},
		follows: map[[2]uint]struct{}{},
	}
}

func (m *MemStore) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("create user failed: %w", repository.ErrDuplicateEntry)
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MemStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyOf(m.users[id]), nil
}

func (m *MemStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if m.sameUsername(u.Username, username) {
			return m.copyOf(u), nil
		}
	}
	return nil, nil
}

func (m *MemStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return m.copyOf(u), nil
		}
	}
	return nil, nil
}

func (m *MemStore) FindConflict(_ context.Context, excludeUsername, email, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.sortedIDs() {
		u := m.users[id]
		if u.Username == excludeUsername {
			continue
		}
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			return m.copyOf(u), nil
		}
	}
	return nil, nil
}

func (m *MemStore) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil
	}
	next := *u
	for column, value := range fields {
		switch column {
		case "email":
			next.Email = value.(string)
		case "username":
			next.Username = value.(string)
		case "password_hash":
			next.PasswordHash = value.(string)
		case "bio":
			next.Bio = copyString(value.(*string))
		case "image":
			next.Image = copyString(value.(*string))
		default:
			return fmt.Errorf("unknown column %q", column)
		}
	}
	for otherID, other := range m.users {
		if otherID != id && (other.Email == next.Email || other.Username == next.Username) {
			return fmt.Errorf("update user failed: %w", repository.ErrDuplicateEntry)
		}
	}
	m.users[id] = &next
	return nil
}

func (m *MemStore) AddEdge(_ context.Context, followerID, followingID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows[[2]uint{followerID, followingID}] = struct{}{}
	return nil
}

func (m *MemStore) RemoveEdge(_ context.Context, followerID, followingID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.follows, [2]uint{followerID, followingID})
	return nil
}

func (m *MemStore) Exists(_ context.Context, followerID, followingID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.follows[[2]uint{followerID, followingID}]
	return ok, nil
}

func (m *MemStore) sameUsername(a, b string) bool {
	if m.FoldUsernames {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// FollowEdgeCount reports how many follow edges are stored.
func (m *MemStore) FollowEdgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.follows)
}

// AddArticle stores an article by authorID tagged with tags.
func (m *MemStore) AddArticle(authorID uint, tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = append(m.articles, article{authorID: authorID, tags: tags})
}

func (m *MemStore) ListPopular(_ context.Context, username string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var authorID uint
	if username != "" {
		for _, u := range m.users {
			if u.Username == username {
				authorID = u.ID
			}
		}
	}

	counts := map[string]int{}
	authored := map[string]bool{}
	for _, a := range m.articles {
		for _, tag := range a.tags {
			counts[tag]++
			if a.authorID == authorID {
				authored[tag] = true
			}
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		if username != "" && !authored[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (m *MemStore) sortedIDs() []uint {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *MemStore) copyOf(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Bio = copyString(u.Bio)
	c.Image = copyString(u.Image)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StaticSigner signs tokens as "token:<username>".
type StaticSigner struct{}

func (StaticSigner) Sign(_ uint, username, _ string) (string, error) {
	return "token:" + username, nil
}
