package handler

import (
	"net/http"
	"time"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/apierror"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/infra"

	"github.com/gin-gonic/gin"
)

const defaultPresignExpiry = 15 * time.Minute

// Only attachment types the portal actually serves may be uploaded.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// FileHandler issues presigned object-storage URLs. Uploads are admin only;
// downloads are available to any authenticated caller.
type FileHandler struct {
	storage *infra.Storage
}

func NewFileHandler(storage *infra.Storage) *FileHandler {
	return &FileHandler{storage: storage}
}

// SignUpload handles POST /v1/admin/files/sign-upload.
func (h *FileHandler) SignUpload(c *gin.Context) {
	var req dto.SignUploadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !allowedUploadTypes[req.ContentType] {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("unsupported content type"))
		return
	}

	expiry := defaultPresignExpiry
	if req.ExpiresIn > 0 {
		expiry = time.Duration(req.ExpiresIn) * time.Second
	}

	url, err := h.storage.PresignUpload(c.Request.Context(), req.Key, req.ContentType, expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to sign upload"))
		return
	}
	c.JSON(http.StatusOK, dto.SignedURLResponse{
		URL:       url,
		Method:    http.MethodPut,
		Key:       req.Key,
		ExpiresIn: int(expiry.Seconds()),
	})
}

// SignDownload handles GET /v1/files/sign-download?key=...
func (h *FileHandler) SignDownload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, apierror.New("key is required"))
		return
	}

	url, err := h.storage.PresignDownload(c.Request.Context(), key, defaultPresignExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to sign download"))
		return
	}
	c.JSON(http.StatusOK, dto.SignedURLResponse{
		URL:       url,
		Method:    http.MethodGet,
		Key:       key,
		ExpiresIn: int(defaultPresignExpiry.Seconds()),
	})
}
