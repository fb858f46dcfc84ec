package feed

import (
	"context"

	"gorm.io/gorm"

	"github.com/tophat51/notarobloxrevival/internal/db"
)

type Repository interface {
	// PublicPlaces lists places open to everyone with the game sessions
	// that pinged after since.
	PublicPlaces(ctx context.Context, since int64) ([]Place, error)
	Users(ctx context.Context, usernames []string) ([]db.UserRef, error)
	RecentPosts(ctx context.Context, limit int) ([]Post, error)
	CreatePost(ctx context.Context, p *Post) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) PublicPlaces(ctx context.Context, since int64) ([]Place, error) {
	var places []Place
	err := r.db.WithContext(ctx).
		Preload("GameSessions", "ping > ?", since).
		Where("private_server = ?", false).
		Order("id ASC").
		Find(&places).Error
	return places, err
}

func (r *gormRepository) Users(ctx context.Context, usernames []string) ([]db.UserRef, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	var users []db.UserRef
	err := r.db.WithContext(ctx).
		Select("id", "username", "number").
		Where("username IN ?", usernames).
		Find(&users).Error
	return users, err
}

func (r *gormRepository) RecentPosts(ctx context.Context, limit int) ([]Post, error) {
	var posts []Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("posted DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *gormRepository) CreatePost(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Omit("Author").Create(p).Error
}
