package repository

import (
	"context"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository persists submitted carts.
type OrderRepository interface {
	// NextOrderNumber pulls the next value from the order number sequence.
	NextOrderNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]model.Order, int64, error)
	ListAll(ctx context.Context) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('order_no_seq')").Scan(&n).Error
	return n, err
}

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	// Items are created in the same statement via GORM association handling.
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) ListByEmail(ctx context.Context, email string) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("email = ?", email)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").Preload("Items.Product").Order("created_at DESC").Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) ListAll(ctx context.Context) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").Preload("Items.Product").Order("created_at DESC").Find(&orders).Error
	return orders, total, err
}
