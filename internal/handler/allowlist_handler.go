package handler

import (
	"net/http"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// AllowlistHandler manages allowlist entries. All routes are admin only.
type AllowlistHandler struct {
	allowlist service.AllowlistService
}

func NewAllowlistHandler(allowlist service.AllowlistService) *AllowlistHandler {
	return &AllowlistHandler{allowlist: allowlist}
}

func (h *AllowlistHandler) List(c *gin.Context) {
	resp, err := h.allowlist.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AllowlistHandler) Create(c *gin.Context) {
	var req dto.CreateAllowedEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.allowlist.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AllowlistHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAllowedEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.allowlist.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AllowlistHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.allowlist.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
