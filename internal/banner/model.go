package banner

import (
	"time"

	"github.com/google/uuid"

	"github.com/tophat51/notarobloxrevival/internal/db"
)

// Banner is a site-wide announcement shown above every page while active.
type Banner struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Body      string     `json:"body"`
	BgColour  string     `gorm:"column:bg_colour" json:"bgColour"`
	TextLight bool       `json:"textLight"`
	Active    bool       `json:"active"`
	UserID    string     `gorm:"type:uuid" json:"-"`
	User      db.UserRef `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Banner) TableName() string {
	return "announcements"
}
