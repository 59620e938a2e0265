package model

import (
	"time"

	"github.com/google/uuid"
)

const FileTypeDocument = "DOCUMENT"

// ProductFile is a document attached to a product, unique per
// (product_id, path). Imports only ever add or refresh rows.
type ProductFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_file_path"`
	Path      string    `gorm:"not null;uniqueIndex:idx_product_file_path"`
	FileType  string    `gorm:"not null"`
	Title     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductFile) TableName() string { return "product_files" }
