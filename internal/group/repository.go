package group

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNameTaken = errors.New("group name taken")

type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Create returns ErrNameTaken when another group won the name first.
	Create(ctx context.Context, g *Group) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Exists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Group{}).Where("name = ?", name).Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *gormRepository) Create(ctx context.Context, g *Group) error {
	err := r.db.WithContext(ctx).Create(g).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrNameTaken
	}
	return err
}
