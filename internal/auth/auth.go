package auth

import (
	"context"
	"time"

	"github.com/tophat51/notarobloxrevival/internal/session"
)

const DefaultSessionExpiresIn = 30 * 24 * time.Hour

// ValidatedSession is a session that passed ValidateSession. Fresh is set
// when validation extended its expiry and the cookie must be re-issued.
type ValidatedSession struct {
	session.Session
	Fresh bool
}

// Auth owns the session lifecycle. All persistence goes through the
// adapter; Auth itself keeps no state besides its settings.
type Auth struct {
	adapter   session.Adapter
	expiresIn time.Duration
	now       func() time.Time
}

type Option func(*Auth)

func WithSessionExpiresIn(d time.Duration) Option {
	return func(a *Auth) {
		if d > 0 {
			a.expiresIn = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Auth) { a.now = now }
}

func New(adapter session.Adapter, opts ...Option) *Auth {
	a := &Auth{
		adapter:   adapter,
		expiresIn: DefaultSessionExpiresIn,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Auth) newExpiry() time.Time {
	return a.now().Add(a.expiresIn).Truncate(time.Second)
}

// CreateSession signs the user in with a brand new session.
func (a *Auth) CreateSession(ctx context.Context, userID string) (*ValidatedSession, error) {
	id, err := session.GenerateID()
	if err != nil {
		return nil, err
	}

	s := session.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: a.newExpiry(),
	}

	if err := a.adapter.SetSession(ctx, s); err != nil {
		return nil, err
	}

	return &ValidatedSession{Session: s, Fresh: true}, nil
}

// ValidateSession returns (nil, nil, nil) for unknown, orphaned or
// expired sessions, removing the latter two. A session in the second
// half of its lifetime is extended.
func (a *Auth) ValidateSession(ctx context.Context, sessionID string) (*ValidatedSession, *session.User, error) {
	s, u, err := a.adapter.GetSessionAndUser(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, nil
	}

	if u == nil {
		return nil, nil, a.adapter.DeleteSession(ctx, s.ID)
	}

	now := a.now()
	if !now.Before(s.ExpiresAt) {
		return nil, nil, a.adapter.DeleteSession(ctx, s.ID)
	}

	vs := &ValidatedSession{Session: *s}

	if !now.Before(s.ExpiresAt.Add(-a.expiresIn / 2)) {
		vs.ExpiresAt = a.newExpiry()
		if err := a.adapter.UpdateSessionExpiration(ctx, s.ID, vs.ExpiresAt); err != nil {
			return nil, nil, err
		}
		vs.Fresh = true
	}

	return vs, u, nil
}

func (a *Auth) InvalidateSession(ctx context.Context, sessionID string) error {
	return a.adapter.DeleteSession(ctx, sessionID)
}

// InvalidateUserSessions signs the user out everywhere.
func (a *Auth) InvalidateUserSessions(ctx context.Context, userID string) error {
	return a.adapter.DeleteUserSessions(ctx, userID)
}

func (a *Auth) DeleteExpiredSessions(ctx context.Context) error {
	return a.adapter.DeleteExpiredSessions(ctx)
}

// GetUserSessions lists the user's sessions that have not expired yet.
func (a *Auth) GetUserSessions(ctx context.Context, userID string) ([]session.Session, error) {
	all, err := a.adapter.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := a.now()
	live := make([]session.Session, 0, len(all))
	for _, s := range all {
		if now.Before(s.ExpiresAt) {
			live = append(live, s)
		}
	}
	return live, nil
}
