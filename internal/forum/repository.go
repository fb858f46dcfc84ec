package forum

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("forum category not found")

type Repository interface {
	// FindCategory matches name case-insensitively.
	FindCategory(ctx context.Context, name string) (*Category, error)
	CreatePost(ctx context.Context, p *Post) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindCategory(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := r.db.WithContext(ctx).
		Select("name").
		Where("LOWER(name) = LOWER(?)", name).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) CreatePost(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}
