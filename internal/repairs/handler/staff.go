package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/transport"
	"repair_portal_backend/platform/httpkit"
	"repair_portal_backend/platform/validator"
)

// ListRepairs returns the worklist of a worker group.
// GET /api/v1/staff/repairs
func (h *Handler) ListRepairs(c *gin.Context) {
	var req transport.ListStaffRepairsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, validator.Issues(err))
		return
	}

	group := h.dashboard.ResolveGroup(req.Group)
	orders := h.dashboard.FetchOrders(c.Request.Context(), group, req.PageSize)

	resp := transport.StaffRepairListResponse{
		OK:    true,
		Group: group,
		Items: make([]transport.StaffRepairOrderResponse, 0, len(orders)),
	}
	for _, order := range orders {
		resp.Items = append(resp.Items, toStaffRepairOrderResponse(order))
	}
	httpkit.OK(c, resp)
}

// AdvanceStage moves an order to a later stage.
// PATCH /api/v1/staff/repairs/:orderId/stage
func (h *Handler) AdvanceStage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.AdvanceStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusUnprocessableEntity, msgValidationFailed, validator.Issues(err))
		return
	}

	change, err := h.dashboard.AdvanceStage(c.Request.Context(), c.Param("orderId"), req.Stage, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AdvanceStageResponse{
		OK:             true,
		OrderID:        change.OrderID,
		PreviousStage:  string(change.From),
		Stage:          string(change.To),
		StageUpdatedAt: change.ChangedAt,
	})
}

// ListWorkers returns the worker roster with current loads.
// GET /api/v1/staff/workers
func (h *Handler) ListWorkers(c *gin.Context) {
	workers, err := h.dashboard.Workers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.WorkerListResponse{OK: true, Items: make([]transport.WorkerResponse, 0, len(workers))}
	for _, w := range workers {
		resp.Items = append(resp.Items, transport.WorkerResponse{
			ID:        w.ID,
			Email:     w.Email,
			Name:      w.Name,
			Active:    w.Active,
			TaskCount: w.TaskCount,
		})
	}
	httpkit.OK(c, resp)
}

func toStaffRepairOrderResponse(o domain.StaffRepairOrder) transport.StaffRepairOrderResponse {
	resp := transport.StaffRepairOrderResponse{
		OrderID:           o.OrderID,
		OrderNumber:       o.OrderNumber,
		CreatedAt:         o.CreatedAt,
		TotalAmount:       o.Total.Amount,
		Currency:          o.Total.Currency,
		Stage:             string(o.Stage),
		StageUpdatedAt:    o.StageUpdatedAt,
		WorkerGroup:       o.WorkerGroup,
		CustomerFullName:  o.Customer.FullName,
		CustomerPhone:     o.Customer.Phone,
		CustomerEmail:     o.Customer.Email,
		CustomerMessage:   o.Customer.Message,
		ServiceName:       o.Service.Name,
		ServiceSlug:       o.Service.Slug,
		ServiceCategory:   o.Service.Category,
		ServiceGroup:      o.Service.Group,
		DeviceType:        o.DeviceType,
		Urgent:            o.Urgent,
		NeedsPickup:       o.NeedsPickup,
		Consent:           o.Consent,
		Modifiers:         o.Modifiers,
		LeadGroup:         o.LeadGroup,
		LeadPriorityUntil: o.LeadPriorityUntil,
	}
	if o.Worker != nil {
		resp.Worker = &transport.AssignedWorkerResponse{ID: o.Worker.WorkerID, Email: o.Worker.WorkerEmail, Name: o.Worker.WorkerName}
	}
	if o.Customer.PreferredContact != nil {
		channel := string(*o.Customer.PreferredContact)
		resp.PreferredContact = &channel
	}
	if o.PriceEstimate != nil {
		resp.PriceMin = o.PriceEstimate.Min
		resp.PriceMax = o.PriceEstimate.Max
		resp.PriceCurrency = o.PriceEstimate.Currency
	}
	if resp.Modifiers == nil {
		resp.Modifiers = map[string]float64{}
	}
	return resp
}
