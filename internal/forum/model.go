package forum

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	Name        string `gorm:"primaryKey" json:"name"`
	Description string `json:"description"`
}

func (Category) TableName() string {
	return "forum_categories"
}

type Post struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	AuthorID          string    `gorm:"type:uuid" json:"authorId"`
	ForumCategoryName string    `json:"forumCategoryName"`
	Posted            time.Time `json:"posted"`
}

func (Post) TableName() string {
	return "forum_posts"
}
