package model

import (
	"time"

	"github.com/google/uuid"
)

// Relation kinds. A product may carry both kinds of links to the same target;
// the uniqueness triple keeps them apart.
const (
	RelationAccessory = "ACCESSORY"
	RelationSparePart = "SPARE_PART"
)

// ProductRelation links a product to a related product, unique per
// (product_id, related_id, kind). Self-links are never persisted.
type ProductRelation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_relation"`
	RelatedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_relation"`
	Kind      string    `gorm:"not null;uniqueIndex:idx_product_relation"`
	SortOrder int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductRelation) TableName() string { return "product_relations" }
