package session

import (
	"context"
	"time"
)

// Session is a server-issued credential binding an opaque identifier to
// a user until ExpiresAt. UserID is read from the ownership edge, never
// from a column on the session itself.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// User is the owner of a session as handed back to the auth layer: the
// identifier plus the full user record.
type User struct {
	ID         string
	Attributes UserAttributes
}

// UserAttributes mirrors a users row. JSON names match the column names
// so a row serialised by the store decodes directly.
type UserAttributes struct {
	ID                string      `json:"id"`
	Username          string      `json:"username"`
	Number            int64       `json:"number"`
	Email             string      `json:"email"`
	PermissionLevel   int         `json:"permission_level"`
	Currency          int64       `json:"currency"`
	CurrencyCollected time.Time   `json:"currency_collected"`
	Created           time.Time   `json:"created"`
	LastOnline        time.Time   `json:"last_online"`
	Status            Status      `json:"status"`
	CSS               string      `json:"css"`
	BodyColours       BodyColours `json:"body_colours"`
	Bio               []BioEntry  `json:"bio"`
}

type Status string

const (
	StatusPlaying Status = "Playing"
	StatusOnline  Status = "Online"
	StatusOffline Status = "Offline"
)

type BodyColours struct {
	Head     int `json:"Head"`
	LeftArm  int `json:"LeftArm"`
	LeftLeg  int `json:"LeftLeg"`
	RightArm int `json:"RightArm"`
	RightLeg int `json:"RightLeg"`
	Torso    int `json:"Torso"`
}

type BioEntry struct {
	Text    string    `json:"text"`
	Updated time.Time `json:"updated"`
}

// Adapter is the storage contract the auth layer delegates all session
// persistence to. Implementations hold no state between calls and
// return store errors unchanged.
type Adapter interface {
	// DeleteSession removes one session. Unknown ids are not an error.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteUserSessions removes every session owned by the user.
	DeleteUserSessions(ctx context.Context, userID string) error

	// GetSessionAndUser returns (nil, nil, nil) when the session does not
	// exist and (session, nil, nil) when it has no owner.
	GetSessionAndUser(ctx context.Context, sessionID string) (*Session, *User, error)

	// SetSession persists the session together with its ownership edge.
	SetSession(ctx context.Context, s Session) error

	UpdateSessionExpiration(ctx context.Context, sessionID string, expiresAt time.Time) error

	// DeleteExpiredSessions removes sessions whose expiry is strictly
	// before the store's current time.
	DeleteExpiredSessions(ctx context.Context) error

	GetUserSessions(ctx context.Context, userID string) ([]Session, error)
}
