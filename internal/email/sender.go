// Package email renders and delivers staff notification emails.
package email

import (
	"context"

	"repair_portal_backend/platform/config"
)

// RepairAssignment is what a worker needs to pick up a newly assigned order.
type RepairAssignment struct {
	WorkerName    string
	OrderNumber   string
	ServiceName   string
	DeviceType    string
	CustomerName  string
	CustomerPhone string
	Urgent        bool
	NeedsPickup   bool
	Escalated     bool
}

type Sender interface {
	SendRepairAssignedEmail(ctx context.Context, toEmail string, data RepairAssignment) error
}

type NoopSender struct{}

func (NoopSender) SendRepairAssignedEmail(context.Context, string, RepairAssignment) error {
	return nil
}

// NewSender returns an SMTP sender when email is enabled, otherwise a no-op.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
