package repository

import (
	"context"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// UpsertBatch inserts or updates products keyed on product_no_norm and
	// returns the rows with store-assigned IDs populated. An existing
	// thumbnail_path survives unless the incoming row carries a non-empty one.
	UpsertBatch(ctx context.Context, products []model.Product) ([]model.Product, error)

	// FindIDsByNorms resolves upper-cased product numbers to IDs for numbers
	// referenced by a batch but not part of it. Missing numbers are simply
	// absent from the result.
	FindIDsByNorms(ctx context.Context, norms []string) (map[string]uuid.UUID, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Files").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Relations", func(db *gorm.DB) *gorm.DB { return db.Order("kind ASC, sort_order ASC") }).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindManyByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive, "all" = everything, default active only
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("name ILIKE ? OR product_no ILIKE ?", pattern, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("product_no ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", true).Error
}

func (r *productRepo) UpsertBatch(ctx context.Context, products []model.Product) ([]model.Product, error) {
	if len(products) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_no_norm"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"product_no": gorm.Expr("excluded.product_no"),
			"name":       gorm.Expr("excluded.name"),
			"list_price": gorm.Expr("excluded.list_price"),
			"active":     gorm.Expr("excluded.active"),
			// Blank incoming value must never erase a stored thumbnail.
			"thumbnail_path": gorm.Expr("COALESCE(NULLIF(excluded.thumbnail_path, ''), products.thumbnail_path)"),
			"updated_at":     gorm.Expr("now()"),
		}),
	}, clause.Returning{}).Create(&products).Error
	return products, err
}

func (r *productRepo) FindIDsByNorms(ctx context.Context, norms []string) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID, len(norms))
	if len(norms) == 0 {
		return result, nil
	}
	var rows []model.Product
	if err := r.db.WithContext(ctx).
		Select("id", "product_no_norm").
		Where("product_no_norm IN ?", norms).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ProductNoNorm] = row.ID
	}
	return result, nil
}
