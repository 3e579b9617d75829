// Package domain holds the repair intake types shared by the gate, codec,
// assignment policy and services. It has no dependencies on transport or storage.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrServiceNotFound is returned by catalog lookups for unknown slugs.
	ErrServiceNotFound = errors.New("service not found")
	// ErrOrderNotFound is returned by order reads for unknown ids.
	ErrOrderNotFound = errors.New("order not found")
)

// ContactChannel is the customer's preferred way to be reached.
type ContactChannel string

const (
	ContactPhone ContactChannel = "phone"
	ContactEmail ContactChannel = "email"
)

// PriceEstimate is the storefront's quoted range at submission time.
type PriceEstimate struct {
	Min      *float64
	Max      *float64
	Currency string
}

// RepairServiceRequest is the validated, normalized intake payload.
// It is never persisted as its own record; the codec flattens it onto an order.
type RepairServiceRequest struct {
	FullName         string
	Phone            string
	Email            *string
	Message          *string
	DeviceType       string
	ServiceSlug      string
	Urgent           bool
	NeedsPickup      bool
	PreferredContact *ContactChannel
	PriceEstimate    *PriceEstimate
	Consent          bool
	Modifiers        map[string]float64
}

// ServiceDefinition is a catalog entry resolved by slug.
type ServiceDefinition struct {
	Name     string
	Category string
	Group    string
	Slug     string
}

// Worker is a member of the repair worker pool.
type Worker struct {
	ID        string
	Email     string
	Name      string
	Active    bool
	TaskCount int
}

// Assignment is the worker snapshot written onto an order. It is not
// re-synced when the worker's profile changes later.
type Assignment struct {
	WorkerID    string
	WorkerEmail string
	WorkerName  string
}

// AssignmentFor snapshots w.
func AssignmentFor(w Worker) *Assignment {
	return &Assignment{WorkerID: w.ID, WorkerEmail: w.Email, WorkerName: w.Name}
}

// MetadataItem is one entry of the backend's flat string metadata bag.
type MetadataItem struct {
	Key   string
	Value string
}

// Money is an order total as reported by the backend.
type Money struct {
	Amount   float64
	Currency string
}

// OrderRef identifies a newly created order.
type OrderRef struct {
	ID     string
	Number string
}

// OrderSnapshot is a backend order with its raw metadata bag.
type OrderSnapshot struct {
	ID        string
	Number    string
	CreatedAt time.Time
	Total     Money
	Metadata  []MetadataItem
}

// Customer is the contact block of a decoded repair order.
type Customer struct {
	FullName         string
	Phone            string
	Email            *string
	Message          *string
	PreferredContact *ContactChannel
}

// StaffRepairOrder is the denormalized view a worker sees on the dashboard.
// Every repair field comes from the metadata bag.
type StaffRepairOrder struct {
	OrderID     string
	OrderNumber string
	CreatedAt   time.Time
	Total       Money

	Stage          Stage
	StageUpdatedAt *time.Time
	Worker         *Assignment
	WorkerGroup    string

	Customer    Customer
	Service     ServiceDefinition
	DeviceType  string
	Urgent      bool
	NeedsPickup bool
	Consent     bool

	PriceEstimate *PriceEstimate
	Modifiers     map[string]float64

	LeadGroup         string
	LeadPriorityUntil *time.Time
}
