package dto

import "github.com/shopspring/decimal"

type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type SubmitOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	Note  *string            `json:"note"  validate:"omitempty,max=1000"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	ProductNo string          `json:"product_no,omitempty"`
	Name      *string         `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	OrderNo   int64               `json:"order_no"`
	Email     string              `json:"email"`
	Note      *string             `json:"note"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
}
