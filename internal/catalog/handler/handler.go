package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair_portal_backend/internal/catalog/service"
	"repair_portal_backend/internal/catalog/transport"
	"repair_portal_backend/platform/httpkit"
	"repair_portal_backend/platform/validator"
)

// Handler handles HTTP requests for the service catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListServices returns active repair services.
// GET /api/v1/repair-services
func (h *Handler) ListServices(c *gin.Context) {
	var req transport.ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Issues(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetService returns a single repair service.
// GET /api/v1/repair-services/:slug
func (h *Handler) GetService(c *gin.Context) {
	result, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
