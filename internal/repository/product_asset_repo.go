package repository

import (
	"context"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFileRepository upserts document attachments derived from imports.
type ProductFileRepository interface {
	UpsertBatch(ctx context.Context, files []model.ProductFile) error
}

// ProductImageRepository upserts gallery entries derived from imports.
type ProductImageRepository interface {
	UpsertBatch(ctx context.Context, images []model.ProductImage) error
}

// ProductRelationRepository upserts accessory / spare-part links.
type ProductRelationRepository interface {
	UpsertBatch(ctx context.Context, relations []model.ProductRelation) error
}

type productFileRepo struct{ db *gorm.DB }

func NewProductFileRepository(db *gorm.DB) ProductFileRepository { return &productFileRepo{db: db} }

func (r *productFileRepo) UpsertBatch(ctx context.Context, files []model.ProductFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"file_type":  gorm.Expr("excluded.file_type"),
			"title":      gorm.Expr("excluded.title"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&files).Error
}

type productImageRepo struct{ db *gorm.DB }

func NewProductImageRepository(db *gorm.DB) ProductImageRepository { return &productImageRepo{db: db} }

func (r *productImageRepo) UpsertBatch(ctx context.Context, images []model.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "storage_path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"bucket":     gorm.Expr("excluded.bucket"),
			"sort_order": gorm.Expr("excluded.sort_order"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&images).Error
}

type productRelationRepo struct{ db *gorm.DB }

func NewProductRelationRepository(db *gorm.DB) ProductRelationRepository {
	return &productRelationRepo{db: db}
}

func (r *productRelationRepo) UpsertBatch(ctx context.Context, relations []model.ProductRelation) error {
	if len(relations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "related_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"sort_order": gorm.Expr("excluded.sort_order"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&relations).Error
}
