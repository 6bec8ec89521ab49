package directory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	id "siteops/pkg/domain"
	"siteops/pkg/platform/sentinel"
	pstrings "siteops/pkg/platform/strings"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]*User)}
}

func (s *InMemoryStore) Upsert(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	u.Roles = slices.Clone(user.Roles)
	s.users[user.ID] = &u
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c, nil
}

// FindActive returns the active users among ids. Unknown and inactive IDs
// are omitted.
func (s *InMemoryStore) FindActive(_ context.Context, ids []id.UserID) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.UserID
	for _, uid := range ids {
		if u, ok := s.users[uid]; ok && u.Active {
			out = append(out, uid)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]id.UserID, error) {
	return s.collect(func(*User) bool { return true }), nil
}

func (s *InMemoryStore) ListActiveByRoles(_ context.Context, roles []string) ([]id.UserID, error) {
	roles = pstrings.NormalizeSet(roles)
	return s.collect(func(u *User) bool { return u.HasAnyRole(roles) }), nil
}

func (s *InMemoryStore) collect(match func(*User) bool) []id.UserID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.UserID
	for _, u := range s.users {
		if u.Active && match(u) {
			out = append(out, u.ID)
		}
	}
	slices.SortFunc(out, func(a, b id.UserID) int { return strings.Compare(a.String(), b.String()) })
	return out
}
