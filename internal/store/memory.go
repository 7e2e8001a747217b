package store

import (
	"context"
	"sort"
	"sync"

	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
)

// Memory is a Store backed by process memory. Values are deep-copied on the
// way in and out so callers never alias stored state.
type Memory struct {
	mu          sync.RWMutex
	matches     map[int64]draft.Match
	users       map[int64]draft.User
	nextMatchID int64
	nextUserID  int64
}

func NewMemory() *Memory {
	return &Memory{
		matches: make(map[int64]draft.Match),
		users:   make(map[int64]draft.User),
	}
}

func (s *Memory) CreateMatch(_ context.Context, m draft.Match) (draft.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMatchID++
	m.ID = s.nextMatchID
	s.matches[m.ID] = m.Clone()
	return m, nil
}

func (s *Memory) Match(_ context.Context, id int64) (draft.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return draft.Match{}, ErrNotFound
	}
	return m.Clone(), nil
}

func (s *Memory) Matches(_ context.Context) ([]draft.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]draft.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Memory) UpdateMatch(_ context.Context, m draft.Match) (draft.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; !ok {
		return draft.Match{}, ErrNotFound
	}
	s.matches[m.ID] = m.Clone()
	return m, nil
}

func (s *Memory) CreateUser(_ context.Context, u draft.User) (draft.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u.ID = s.nextUserID
	if u.Box == nil {
		u.Box = draft.Box{}
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Memory) User(_ context.Context, id int64) (draft.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return draft.User{}, ErrNotFound
	}
	return u, nil
}

func (s *Memory) UserByExternalID(_ context.Context, externalID string) (draft.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return draft.User{}, ErrNotFound
}

func (s *Memory) UpdateUserBox(_ context.Context, userID int64, box draft.Box) (draft.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return draft.User{}, ErrNotFound
	}
	u.Box = box
	s.users[userID] = u
	return u, nil
}
