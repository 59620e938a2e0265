package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage is a gallery entry, unique per (product_id, storage_path).
// SortOrder is 1-based within the product and reassigned on every import.
type ProductImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_image_path"`
	StoragePath string    `gorm:"not null;uniqueIndex:idx_product_image_path"`
	Bucket      string    `gorm:"not null"`
	Caption     *string
	SortOrder   int `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductImage) TableName() string { return "product_images" }
