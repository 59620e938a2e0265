package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ProductNo     string           `json:"product_no"     validate:"required,min=1,max=64"`
	Name          *string          `json:"name"           validate:"omitempty,max=255"`
	ListPrice     *decimal.Decimal `json:"list_price"`
	Active        *bool            `json:"active"`
	ThumbnailPath *string          `json:"thumbnail_path"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,max=255"`
	ListPrice     *decimal.Decimal `json:"list_price"`
	Active        *bool            `json:"active"`
	ThumbnailPath *string          `json:"thumbnail_path"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Query  string `form:"q"`
	Active string `form:"active"` // "false" = inactive, "all" = everything, default active only
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string           `json:"id"`
	ProductNo     string           `json:"product_no"`
	Name          *string          `json:"name"`
	ListPrice     *decimal.Decimal `json:"list_price"`
	Active        bool             `json:"active"`
	ThumbnailPath *string          `json:"thumbnail_path"`

	Files     []ProductFileResponse     `json:"files,omitempty"`
	Images    []ProductImageResponse    `json:"images,omitempty"`
	Relations []ProductRelationResponse `json:"relations,omitempty"`
}

type ProductFileResponse struct {
	Path     string  `json:"path"`
	FileType string  `json:"file_type"`
	Title    *string `json:"title"`
}

type ProductImageResponse struct {
	StoragePath string  `json:"storage_path"`
	Bucket      string  `json:"bucket"`
	Caption     *string `json:"caption"`
	SortOrder   int     `json:"sort_order"`
}

type ProductRelationResponse struct {
	RelatedID string `json:"related_id"`
	Kind      string `json:"kind"`
	SortOrder int    `json:"sort_order"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
