package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"repair_portal_backend/internal/repairs/idempotency"
	"repair_portal_backend/internal/repairs/intake"
	"repair_portal_backend/internal/repairs/transport"
	"repair_portal_backend/platform/httpkit"
)

// CreateServiceRequest accepts a storefront repair request.
// POST /api/service-request
func (h *Handler) CreateServiceRequest(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.log.WithContext(ctx)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIntakeBodyBytes+1))
	if err != nil || len(body) > maxIntakeBodyBytes {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}

	key := strings.TrimSpace(c.GetHeader(idempotency.HeaderName))
	if len(key) > maxIdempotencyKeyLen {
		httpkit.Error(c, http.StatusBadRequest, codeInvalidIdempotencyKey, nil)
		return
	}
	fingerprint := idempotency.Fingerprint(body)
	if h.replay(c, key, fingerprint) {
		return
	}

	req, err := transport.ParseServiceRequest(body, h.val, h.gate)
	if err != nil {
		var verr *transport.ValidationError
		switch {
		case errors.Is(err, transport.ErrMalformedJSON):
			httpkit.Error(c, http.StatusBadRequest, msgInvalidJSON, nil)
		case errors.As(err, &verr):
			httpkit.Error(c, http.StatusUnprocessableEntity, msgValidationFailed, verr.Issues)
		default:
			httpkit.HandleError(c, err)
		}
		return
	}

	reserved, handled := h.reserve(c, key, fingerprint)
	if handled {
		return
	}

	result, err := h.intake.Create(ctx, req)
	if err != nil {
		if reserved {
			if rerr := h.idem.Release(ctx, key); rerr != nil {
				log.DownstreamError("redis", "idempotency_release", rerr)
			}
		}
		httpkit.HandleError(c, err)
		return
	}

	payload, err := json.Marshal(toServiceRequestResponse(result))
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
		return
	}

	if reserved {
		rec := idempotency.Record{
			Fingerprint: fingerprint,
			Status:      http.StatusOK,
			Body:        payload,
			StoredAt:    time.Now().UTC(),
		}
		if err := h.idem.Put(ctx, key, rec); err != nil {
			log.DownstreamError("redis", "idempotency_put", err)
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// replay answers from a stored response when the key was seen before.
// Store errors degrade to normal processing.
func (h *Handler) replay(c *gin.Context, key, fingerprint string) bool {
	if key == "" || h.idem == nil {
		return false
	}

	rec, found, err := h.idem.Get(c.Request.Context(), key)
	if err != nil {
		h.log.WithContext(c.Request.Context()).DownstreamError("redis", "idempotency_get", err)
		return false
	}
	if !found {
		return false
	}
	if rec.Fingerprint != fingerprint {
		httpkit.Error(c, http.StatusConflict, codeIdempotencyKeyReused, nil)
		return true
	}
	if rec.Pending {
		inProgress(c)
		return true
	}

	c.Header(headerIdempotentReplay, "true")
	c.Data(rec.Status, "application/json; charset=utf-8", rec.Body)
	return true
}

// reserve claims key before any order is created, so concurrent retries of
// one submission cannot both reach Saleor. handled is true when the
// response was already written.
func (h *Handler) reserve(c *gin.Context, key, fingerprint string) (reserved, handled bool) {
	if key == "" || h.idem == nil {
		return false, false
	}

	ok, err := h.idem.Reserve(c.Request.Context(), key, fingerprint)
	if err != nil {
		h.log.WithContext(c.Request.Context()).DownstreamError("redis", "idempotency_reserve", err)
		return false, false
	}
	if ok {
		return true, false
	}

	// Lost the race: answer from whatever the winner left behind.
	if h.replay(c, key, fingerprint) {
		return false, true
	}
	inProgress(c)
	return false, true
}

func inProgress(c *gin.Context) {
	c.Header("Retry-After", inProgressRetryAfter)
	httpkit.Error(c, http.StatusConflict, codeIdempotencyInProgress, nil)
}

func toServiceRequestResponse(result intake.Result) transport.ServiceRequestResponse {
	task := transport.TaskResponse{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
	}
	if a := result.AssignedWorker; a != nil {
		task.AssignedWorker = &transport.AssignedWorkerResponse{ID: a.WorkerID, Email: a.WorkerEmail, Name: a.WorkerName}
	}
	return transport.ServiceRequestResponse{
		OK:         true,
		ReceivedAt: result.ReceivedAt,
		Task:       task,
	}
}
