package transport

import "time"

// ServiceRequestPayload is the inbound intake body after key normalization.
type ServiceRequestPayload struct {
	FullName         string                `json:"fullName" validate:"required,min=2,max=120"`
	Phone            string                `json:"phone" validate:"required,min=5,max=40"`
	Email            *string               `json:"email" validate:"omitempty,email,max=254"`
	Message          *string               `json:"message" validate:"omitempty,max=2000"`
	DeviceType       string                `json:"deviceType" validate:"required,min=2,max=40"`
	ServiceSlug      string                `json:"serviceSlug" validate:"required,min=2,max=120"`
	Urgent           bool                  `json:"urgent"`
	NeedsPickup      bool                  `json:"needsPickup"`
	PreferredContact *string               `json:"preferredContact" validate:"omitempty,oneof=phone email"`
	PriceEstimate    *PriceEstimatePayload `json:"priceEstimate"`
	Consent          bool                  `json:"consent"`
	Modifiers        map[string]float64    `json:"modifiers"`
}

// PriceEstimatePayload is the optional quoted range.
type PriceEstimatePayload struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency" validate:"len=3"`
}

// AssignedWorkerResponse is the worker snapshot returned to the storefront.
type AssignedWorkerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TaskResponse identifies the order created for a request.
type TaskResponse struct {
	OrderID        string                  `json:"orderId"`
	OrderNumber    string                  `json:"orderNumber"`
	AssignedWorker *AssignedWorkerResponse `json:"assignedWorker"`
}

// ServiceRequestResponse is the 200 body of the intake endpoint.
type ServiceRequestResponse struct {
	OK         bool         `json:"ok"`
	ReceivedAt time.Time    `json:"receivedAt"`
	Task       TaskResponse `json:"task"`
}

// StaffRepairOrderResponse is one dashboard row.
type StaffRepairOrderResponse struct {
	OrderID           string                  `json:"orderId"`
	OrderNumber       string                  `json:"orderNumber"`
	CreatedAt         time.Time               `json:"createdAt"`
	TotalAmount       float64                 `json:"totalAmount"`
	Currency          string                  `json:"currency"`
	Stage             string                  `json:"stage"`
	StageUpdatedAt    *time.Time              `json:"stageUpdatedAt,omitempty"`
	Worker            *AssignedWorkerResponse `json:"worker"`
	WorkerGroup       string                  `json:"workerGroup"`
	CustomerFullName  string                  `json:"customerFullName"`
	CustomerPhone     string                  `json:"customerPhone"`
	CustomerEmail     *string                 `json:"customerEmail,omitempty"`
	CustomerMessage   *string                 `json:"customerMessage,omitempty"`
	PreferredContact  *string                 `json:"preferredContact,omitempty"`
	ServiceName       string                  `json:"serviceName"`
	ServiceSlug       string                  `json:"serviceSlug"`
	ServiceCategory   string                  `json:"serviceCategory,omitempty"`
	ServiceGroup      string                  `json:"serviceGroup,omitempty"`
	DeviceType        string                  `json:"deviceType"`
	Urgent            bool                    `json:"urgent"`
	NeedsPickup       bool                    `json:"needsPickup"`
	Consent           bool                    `json:"consent"`
	PriceMin          *float64                `json:"priceMin,omitempty"`
	PriceMax          *float64                `json:"priceMax,omitempty"`
	PriceCurrency     string                  `json:"priceCurrency,omitempty"`
	Modifiers         map[string]float64      `json:"modifiers"`
	LeadGroup         string                  `json:"leadGroup,omitempty"`
	LeadPriorityUntil *time.Time              `json:"leadPriorityUntil,omitempty"`
}

// ListStaffRepairsRequest is the worklist query string.
type ListStaffRepairsRequest struct {
	Group    string `form:"group" json:"group" validate:"max=120"`
	PageSize int    `form:"pageSize" json:"pageSize" validate:"min=0,max=100"`
}

// StaffRepairListResponse wraps the worklist.
type StaffRepairListResponse struct {
	OK    bool                       `json:"ok"`
	Group string                     `json:"group"`
	Items []StaffRepairOrderResponse `json:"items"`
}

// AdvanceStageRequest is the PATCH body for a stage change.
type AdvanceStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// AdvanceStageResponse echoes the stored stage.
type AdvanceStageResponse struct {
	OK             bool      `json:"ok"`
	OrderID        string    `json:"orderId"`
	PreviousStage  string    `json:"previousStage"`
	Stage          string    `json:"stage"`
	StageUpdatedAt time.Time `json:"stageUpdatedAt"`
}

// WorkerResponse is one roster row.
type WorkerResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	TaskCount int    `json:"taskCount"`
}

// WorkerListResponse wraps the roster.
type WorkerListResponse struct {
	OK    bool             `json:"ok"`
	Items []WorkerResponse `json:"items"`
}
