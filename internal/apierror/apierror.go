// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// RowError reports a validation failure for a specific row of an import batch.
// Row is the 1-based position in the original spreadsheet, header included,
// so the first data row is reported as row 2.
type RowError struct {
	Detail    string `json:"detail"`
	Row       int    `json:"row"`
	ProductNo string `json:"product_no,omitempty"`
}

func NewRow(msg string, row int, productNo string) *RowError {
	return &RowError{Detail: msg, Row: row, ProductNo: productNo}
}
