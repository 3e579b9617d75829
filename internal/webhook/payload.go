package webhook

import (
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/internal/repairs/ports"
)

// EventServiceRequestCreated is the only event this webhook emits.
const EventServiceRequestCreated = "service_request.created"

// Payload is the JSON body POSTed to the receiver.
type Payload struct {
	Event          string         `json:"event"`
	ReceivedAt     string         `json:"receivedAt"`
	Order          OrderPayload   `json:"order"`
	Stage          string         `json:"stage"`
	Service        ServicePayload `json:"service"`
	Request        RequestPayload `json:"request"`
	AssignedWorker *WorkerPayload `json:"assignedWorker"`
}

type OrderPayload struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

type ServicePayload struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Group    string `json:"group,omitempty"`
}

type RequestPayload struct {
	FullName         string             `json:"fullName"`
	Phone            string             `json:"phone"`
	Email            *string            `json:"email"`
	Message          *string            `json:"message"`
	DeviceType       string             `json:"deviceType"`
	Urgent           bool               `json:"urgent"`
	NeedsPickup      bool               `json:"needsPickup"`
	PreferredContact *string            `json:"preferredContact"`
	PriceEstimate    *PricePayload      `json:"priceEstimate"`
	Consent          bool               `json:"consent"`
	Modifiers        map[string]float64 `json:"modifiers"`
}

type PricePayload struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency,omitempty"`
}

type WorkerPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewPayload flattens an intake notice into the webhook body.
func NewPayload(notice ports.ServiceRequestNotice) Payload {
	req := notice.Request
	p := Payload{
		Event:      EventServiceRequestCreated,
		ReceivedAt: metadata.FormatTime(notice.ReceivedAt),
		Order:      OrderPayload{ID: notice.Order.ID, Number: notice.Order.Number},
		Stage:      string(notice.Stage),
		Service: ServicePayload{
			Slug:     notice.Service.Slug,
			Name:     notice.Service.Name,
			Category: notice.Service.Category,
			Group:    notice.Service.Group,
		},
		Request: RequestPayload{
			FullName:    req.FullName,
			Phone:       req.Phone,
			Email:       req.Email,
			Message:     req.Message,
			DeviceType:  req.DeviceType,
			Urgent:      req.Urgent,
			NeedsPickup: req.NeedsPickup,
			Consent:     req.Consent,
			Modifiers:   req.Modifiers,
		},
	}
	if p.Request.Modifiers == nil {
		p.Request.Modifiers = map[string]float64{}
	}
	if req.PreferredContact != nil {
		channel := string(*req.PreferredContact)
		p.Request.PreferredContact = &channel
	}
	if req.PriceEstimate != nil {
		p.Request.PriceEstimate = &PricePayload{
			Min:      req.PriceEstimate.Min,
			Max:      req.PriceEstimate.Max,
			Currency: req.PriceEstimate.Currency,
		}
	}
	if a := notice.Assignment; a != nil {
		p.AssignedWorker = &WorkerPayload{ID: a.WorkerID, Email: a.WorkerEmail, Name: a.WorkerName}
	}
	return p
}
