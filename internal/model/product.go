package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry keyed by a business-facing product number.
// ProductNo keeps the casing of the last import that touched the row;
// ProductNoNorm is the upper-cased match key and carries the unique index
// the import pipeline's upserts rely on.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductNo     string    `gorm:"not null"`
	ProductNoNorm string    `gorm:"uniqueIndex;not null"`
	Name          *string
	ListPrice     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Active        bool             `gorm:"not null;default:true"`
	ThumbnailPath *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Files     []ProductFile     `gorm:"foreignKey:ProductID"`
	Images    []ProductImage    `gorm:"foreignKey:ProductID"`
	Relations []ProductRelation `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }
