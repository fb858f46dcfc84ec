package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tophat51/notarobloxrevival/internal/db"
)

const (
	queryDeleteSession = `DELETE FROM sessions WHERE id = $1`

	// has_session rows go with their sessions through ON DELETE CASCADE.
	queryDeleteUserSessions = `DELETE FROM sessions
WHERE id IN (SELECT session_id FROM has_session WHERE user_id = $1)`

	queryGetSessionAndUser = `SELECT s.id, s.expires_at, h.user_id, to_jsonb(u) - 'hashed_password'
FROM sessions s
LEFT JOIN has_session h ON h.session_id = s.id
LEFT JOIN users u ON u.id = h.user_id
WHERE s.id = $1`

	// One statement, so the session row and its edge commit or fail together.
	querySetSession = `WITH s AS (
    INSERT INTO sessions (id, expires_at) VALUES ($1, $2) RETURNING id
)
INSERT INTO has_session (user_id, session_id)
SELECT $3::uuid, id FROM s`

	queryUpdateSessionExpiration = `UPDATE sessions SET expires_at = $2 WHERE id = $1`

	queryDeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at < EXTRACT(EPOCH FROM NOW())`

	queryGetUserSessions = `SELECT s.id, s.expires_at, h.user_id
FROM has_session h
JOIN sessions s ON s.id = h.session_id
WHERE h.user_id = $1`
)

// PostgresAdapter stores sessions in PostgreSQL. Expiry is kept as
// seconds since the epoch; the user->session relationship is the
// has_session edge table.
type PostgresAdapter struct {
	db db.Querier
}

func NewPostgresAdapter(q db.Querier) *PostgresAdapter {
	return &PostgresAdapter{db: q}
}

var _ Adapter = (*PostgresAdapter)(nil)

func (a *PostgresAdapter) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := a.db.ExecContext(ctx, queryDeleteSession, sessionID)
	return err
}

func (a *PostgresAdapter) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := a.db.ExecContext(ctx, queryDeleteUserSessions, userID)
	return err
}

func (a *PostgresAdapter) GetSessionAndUser(ctx context.Context, sessionID string) (*Session, *User, error) {
	var (
		s         Session
		expiresAt int64
		ownerID   sql.NullString
		userJSON  []byte
	)

	err := a.db.QueryRowContext(ctx, queryGetSessionAndUser, sessionID).
		Scan(&s.ID, &expiresAt, &ownerID, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	s.ExpiresAt = fromUnix(expiresAt)
	s.UserID = ownerID.String

	if userJSON == nil {
		return &s, nil, nil
	}

	var attrs UserAttributes
	if err := json.Unmarshal(userJSON, &attrs); err != nil {
		return nil, nil, fmt.Errorf("session: failed to decode user %s: %w", ownerID.String, err)
	}

	return &s, &User{ID: attrs.ID, Attributes: attrs}, nil
}

func (a *PostgresAdapter) SetSession(ctx context.Context, s Session) error {
	_, err := a.db.ExecContext(ctx, querySetSession, s.ID, toUnix(s.ExpiresAt), s.UserID)
	return err
}

func (a *PostgresAdapter) UpdateSessionExpiration(ctx context.Context, sessionID string, expiresAt time.Time) error {
	_, err := a.db.ExecContext(ctx, queryUpdateSessionExpiration, sessionID, toUnix(expiresAt))
	return err
}

func (a *PostgresAdapter) DeleteExpiredSessions(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, queryDeleteExpiredSessions)
	return err
}

func (a *PostgresAdapter) GetUserSessions(ctx context.Context, userID string) ([]Session, error) {
	rows, err := a.db.QueryContext(ctx, queryGetUserSessions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			s         Session
			expiresAt int64
		)
		if err := rows.Scan(&s.ID, &expiresAt, &s.UserID); err != nil {
			return nil, err
		}
		s.ExpiresAt = fromUnix(expiresAt)
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func toUnix(t time.Time) int64 {
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0)
}
