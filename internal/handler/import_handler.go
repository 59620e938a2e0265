package handler

import (
	"errors"
	"net/http"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/apierror"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ImportHandler exposes the bulk product import endpoint. Admin only.
type ImportHandler struct {
	imports service.ImportService
}

func NewImportHandler(imports service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Run handles POST /v1/admin/products/import.
//
// Error contract: a malformed body or an empty batch is 400, a row that fails
// validation is 422 with the offending row number, and a store failure is 500.
// Whatever was upserted before a mid-batch failure stays committed.
func (h *ImportHandler) Run(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid request body"))
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("import batch contains no rows"))
		return
	}

	summary, err := h.imports.Run(c.Request.Context(), req.Rows)
	if err != nil {
		var rowErr *service.RowValidationError
		if errors.As(err, &rowErr) {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewRow(rowErr.Error(), rowErr.Row, rowErr.ProductNo))
			return
		}
		log.Error().Err(err).Msg("import failed")
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}

	c.JSON(http.StatusOK, summary)
}
