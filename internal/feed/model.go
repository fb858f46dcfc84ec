package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/tophat51/notarobloxrevival/internal/db"
)

type Place struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	Name          string        `json:"name"`
	PrivateServer bool          `json:"-"`
	GameSessions  []GameSession `gorm:"foreignKey:PlaceID" json:"gameSessions"`
}

// GameSession is a running server of a place. Ping is the unix second
// of its last heartbeat.
type GameSession struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlaceID int64     `json:"-"`
	Ping    int64     `json:"ping"`
}

// Post is a status update on the home feed.
type Post struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content  string     `json:"content"`
	AuthorID string     `gorm:"type:uuid" json:"-"`
	Author   db.UserRef `gorm:"foreignKey:AuthorID" json:"authorUser"`
	Posted   time.Time  `json:"posted"`
}
