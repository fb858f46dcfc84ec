package db

// UserRef is the public face of a user attached to content: who wrote a
// post, who created a banner.
type UserRef struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"-"`
	Username string `json:"username"`
	Number   int64  `json:"number"`
}

func (UserRef) TableName() string {
	return "users"
}
