package session

import (
	"context"
	"time"

	"github.com/tophat51/notarobloxrevival/internal/metrics"
)

// InstrumentedAdapter records a counter and a latency observation for
// every call and passes results through untouched.
type InstrumentedAdapter struct {
	next    Adapter
	metrics *metrics.Metrics
}

func Instrument(next Adapter, m *metrics.Metrics) *InstrumentedAdapter {
	return &InstrumentedAdapter{next: next, metrics: m}
}

var _ Adapter = (*InstrumentedAdapter)(nil)

func (a *InstrumentedAdapter) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	a.metrics.SessionOpsTotal.WithLabelValues(op, result).Inc()
	a.metrics.SessionOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (a *InstrumentedAdapter) DeleteSession(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := a.next.DeleteSession(ctx, sessionID)
	a.observe("delete_session", start, err)
	return err
}

func (a *InstrumentedAdapter) DeleteUserSessions(ctx context.Context, userID string) error {
	start := time.Now()
	err := a.next.DeleteUserSessions(ctx, userID)
	a.observe("delete_user_sessions", start, err)
	return err
}

func (a *InstrumentedAdapter) GetSessionAndUser(ctx context.Context, sessionID string) (*Session, *User, error) {
	start := time.Now()
	s, u, err := a.next.GetSessionAndUser(ctx, sessionID)
	a.observe("get_session_and_user", start, err)
	return s, u, err
}

func (a *InstrumentedAdapter) SetSession(ctx context.Context, s Session) error {
	start := time.Now()
	err := a.next.SetSession(ctx, s)
	a.observe("set_session", start, err)
	return err
}

func (a *InstrumentedAdapter) UpdateSessionExpiration(ctx context.Context, sessionID string, expiresAt time.Time) error {
	start := time.Now()
	err := a.next.UpdateSessionExpiration(ctx, sessionID, expiresAt)
	a.observe("update_session_expiration", start, err)
	return err
}

func (a *InstrumentedAdapter) DeleteExpiredSessions(ctx context.Context) error {
	start := time.Now()
	err := a.next.DeleteExpiredSessions(ctx)
	a.observe("delete_expired_sessions", start, err)
	return err
}

func (a *InstrumentedAdapter) GetUserSessions(ctx context.Context, userID string) ([]Session, error) {
	start := time.Now()
	sessions, err := a.next.GetUserSessions(ctx, userID)
	a.observe("get_user_sessions", start, err)
	return sessions, err
}
