package banner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("banner not found")

type Repository interface {
	List(ctx context.Context) ([]Banner, error)
	CountActive(ctx context.Context) (int64, error)
	Create(ctx context.Context, b *Banner) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateBody(ctx context.Context, id uuid.UUID, body string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]Banner, error) {
	var banners []Banner
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&banners).Error
	return banners, err
}

func (r *gormRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Banner{}).Where("active = ?", true).Count(&n).Error
	return n, err
}

func (r *gormRepository) Create(ctx context.Context, b *Banner) error {
	return r.db.WithContext(ctx).Omit("User").Create(b).Error
}

func (r *gormRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.update(ctx, id, "active", active)
}

func (r *gormRepository) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	return r.update(ctx, id, "body", body)
}

func (r *gormRepository) update(ctx context.Context, id uuid.UUID, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&Banner{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Banner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
