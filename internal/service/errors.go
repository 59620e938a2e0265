package service

import "errors"

// Sentinel errors the handler layer maps to HTTP statuses.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrForbidden          = errors.New("operation not permitted")
	ErrProductUnavailable = errors.New("product is not available for ordering")
	ErrProductNoPrice     = errors.New("product has no list price")
	ErrOrderNotCancelable = errors.New("order can no longer be cancelled")
)
