// Package sessiontest provides an in-memory session.Adapter for tests.
package sessiontest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tophat51/notarobloxrevival/internal/session"
)

var ErrUnknownUser = errors.New("sessiontest: unknown user")

// MemoryAdapter keeps sessions, users and the ownership edges in maps.
// It stores expiry in whole seconds like the SQL adapter does.
type MemoryAdapter struct {
	mu       sync.Mutex
	users    map[string]session.UserAttributes
	sessions map[string]int64
	owners   map[string]string // session id -> user id

	// Now is the store-side clock.
	Now func() time.Time
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		users:    make(map[string]session.UserAttributes),
		sessions: make(map[string]int64),
		owners:   make(map[string]string),
		Now:      time.Now,
	}
}

var _ session.Adapter = (*MemoryAdapter)(nil)

func (m *MemoryAdapter) AddUser(u session.UserAttributes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// DeleteUser drops the user and, like the cascade on the edge table,
// its edges. Sessions stay behind without an owner.
func (m *MemoryAdapter) DeleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	for sid, uid := range m.owners {
		if uid == id {
			delete(m.owners, sid)
		}
	}
}

// Len reports the number of stored sessions and edges.
func (m *MemoryAdapter) Len() (sessions, edges int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), len(m.owners)
}

func (m *MemoryAdapter) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(sessionID)
	return nil
}

func (m *MemoryAdapter) deleteLocked(sessionID string) {
	delete(m.sessions, sessionID)
	delete(m.owners, sessionID)
}

func (m *MemoryAdapter) DeleteUserSessions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, uid := range m.owners {
		if uid == userID {
			m.deleteLocked(sid)
		}
	}
	return nil
}

func (m *MemoryAdapter) GetSessionAndUser(_ context.Context, sessionID string) (*session.Session, *session.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil, nil
	}

	s := &session.Session{ID: sessionID, UserID: m.owners[sessionID], ExpiresAt: time.Unix(exp, 0)}

	attrs, ok := m.users[s.UserID]
	if !ok {
		return s, nil, nil
	}

	return s, &session.User{ID: attrs.ID, Attributes: attrs}, nil
}

func (m *MemoryAdapter) SetSession(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[s.UserID]; !ok {
		return ErrUnknownUser
	}

	m.sessions[s.ID] = s.ExpiresAt.Unix()
	m.owners[s.ID] = s.UserID
	return nil
}

func (m *MemoryAdapter) UpdateSessionExpiration(_ context.Context, sessionID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; ok {
		m.sessions[sessionID] = expiresAt.Unix()
	}
	return nil
}

func (m *MemoryAdapter) DeleteExpiredSessions(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	for sid, exp := range m.sessions {
		if time.Unix(exp, 0).Before(now) {
			m.deleteLocked(sid)
		}
	}
	return nil
}

func (m *MemoryAdapter) GetUserSessions(_ context.Context, userID string) ([]session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []session.Session{}
	for sid, uid := range m.owners {
		if uid == userID {
			out = append(out, session.Session{ID: sid, UserID: uid, ExpiresAt: time.Unix(m.sessions[sid], 0)})
		}
	}
	return out, nil
}
