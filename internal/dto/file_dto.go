package dto

type SignUploadRequest struct {
	Key         string `json:"key"          validate:"required,max=512"`
	ContentType string `json:"content_type" validate:"required"`
	ExpiresIn   int    `json:"expires_in"   validate:"omitempty,min=60,max=3600"`
}

type SignedURLResponse struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}
