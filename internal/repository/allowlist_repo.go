package repository

import (
	"context"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllowlistRepository manages the email allowlist. FindActiveByEmail is on the
// hot path: the auth middleware calls it for every authenticated request.
type AllowlistRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (*model.AllowedEmail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.AllowedEmail, error)
	List(ctx context.Context) ([]model.AllowedEmail, error)
	Create(ctx context.Context, e *model.AllowedEmail) error
	Update(ctx context.Context, e *model.AllowedEmail) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type allowlistRepo struct{ db *gorm.DB }

func NewAllowlistRepository(db *gorm.DB) AllowlistRepository { return &allowlistRepo{db: db} }

func (r *allowlistRepo) FindActiveByEmail(ctx context.Context, email string) (*model.AllowedEmail, error) {
	var e model.AllowedEmail
	err := r.db.WithContext(ctx).Where("email = ? AND active = true", email).First(&e).Error
	return &e, err
}

func (r *allowlistRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AllowedEmail, error) {
	var e model.AllowedEmail
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *allowlistRepo) List(ctx context.Context) ([]model.AllowedEmail, error) {
	var entries []model.AllowedEmail
	err := r.db.WithContext(ctx).Order("email ASC").Find(&entries).Error
	return entries, err
}

func (r *allowlistRepo) Create(ctx context.Context, e *model.AllowedEmail) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *allowlistRepo) Update(ctx context.Context, e *model.AllowedEmail) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *allowlistRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.AllowedEmail{}).Where("id = ?", id).Update("active", false).Error
}
