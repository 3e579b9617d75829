// Package handler exposes the repairs module over HTTP.
package handler

import (
	"repair_portal_backend/internal/repairs/dashboard"
	"repair_portal_backend/internal/repairs/idempotency"
	"repair_portal_backend/internal/repairs/intake"
	"repair_portal_backend/internal/repairs/transport"
	"repair_portal_backend/platform/logger"
	"repair_portal_backend/platform/validator"
)

const (
	msgInvalidJSON      = "Invalid JSON payload."
	msgValidationFailed = "Validation failed."
	msgInvalidRequest   = "invalid request"

	codeIdempotencyKeyReused  = "IDEMPOTENCY_KEY_REUSED"
	codeInvalidIdempotencyKey = "INVALID_IDEMPOTENCY_KEY"
	codeIdempotencyInProgress = "IDEMPOTENCY_REQUEST_IN_PROGRESS"

	maxIntakeBodyBytes     = 64 << 10
	maxIdempotencyKeyLen   = 255
	headerIdempotentReplay = "Idempotent-Replayed"
	inProgressRetryAfter   = "2"
)

// Handler handles HTTP requests for repair intake and the staff dashboard.
type Handler struct {
	intake    *intake.Service
	dashboard *dashboard.Service
	idem      idempotency.Store
	val       *validator.Validator
	gate      transport.GateOptions
	log       *logger.Logger
}

// Config groups the handler's collaborators. Idempotency may be nil.
type Config struct {
	Intake      *intake.Service
	Dashboard   *dashboard.Service
	Idempotency idempotency.Store
	Validator   *validator.Validator
	Gate        transport.GateOptions
	Log         *logger.Logger
}

// New creates a new repairs handler.
func New(cfg Config) *Handler {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		intake:    cfg.Intake,
		dashboard: cfg.Dashboard,
		idem:      cfg.Idempotency,
		val:       cfg.Validator,
		gate:      cfg.Gate,
		log:       log,
	}
}
