package metadata

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"repair_portal_backend/internal/repairs/domain"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// EncodeOptions carries values that come from configuration rather than the request.
type EncodeOptions struct {
	WorkerGroup       string
	LeadGroup         string
	LeadPriorityUntil *time.Time
}

// Encode flattens a request, its service and an optional assignment into
// vocabulary order. Keys whose source is empty are omitted. Booleans are
// always written.
func Encode(req domain.RepairServiceRequest, svc domain.ServiceDefinition, assignment *domain.Assignment, opts EncodeOptions, now time.Time) []Item {
	values := make(map[string]string, len(Keys))

	stage := domain.StagePendingAssignment
	if assignment != nil {
		stage = domain.StageAssigned
		values[KeyWorkerID] = assignment.WorkerID
		values[KeyWorkerEmail] = assignment.WorkerEmail
		values[KeyWorkerName] = assignment.WorkerName
	}
	values[KeyStage] = string(stage)
	values[KeyStageUpdatedAt] = FormatTime(now)
	values[KeyWorkerGroup] = opts.WorkerGroup

	values[KeyCustomerFullName] = req.FullName
	values[KeyCustomerPhone] = req.Phone
	values[KeyCustomerEmail] = deref(req.Email)
	values[KeyCustomerMessage] = deref(req.Message)
	if req.PreferredContact != nil {
		values[KeyPreferredContact] = string(*req.PreferredContact)
	}

	values[KeyServiceName] = svc.Name
	values[KeyServiceSlug] = firstNonEmpty(svc.Slug, req.ServiceSlug)
	values[KeyServiceCategory] = svc.Category
	values[KeyServiceGroup] = svc.Group
	values[KeyDeviceType] = req.DeviceType

	values[KeyUrgent] = FormatBool(req.Urgent)
	values[KeyNeedsPickup] = FormatBool(req.NeedsPickup)
	values[KeyConsent] = FormatBool(req.Consent)

	if pe := req.PriceEstimate; pe != nil {
		if pe.Min != nil {
			values[KeyPriceMin] = FormatNumber(*pe.Min)
		}
		if pe.Max != nil {
			values[KeyPriceMax] = FormatNumber(*pe.Max)
		}
		values[KeyPriceCurrency] = pe.Currency
	}

	if len(req.Modifiers) > 0 {
		// json.Marshal sorts map keys, so the output is stable.
		if raw, err := json.Marshal(req.Modifiers); err == nil {
			values[KeyModifiers] = string(raw)
		}
	}

	values[KeyLeadGroup] = opts.LeadGroup
	if opts.LeadPriorityUntil != nil {
		values[KeyLeadPriorityUntil] = FormatTime(*opts.LeadPriorityUntil)
	}

	return ordered(values)
}

// Decode rebuilds the staff view from a metadata bag. Unknown keys are
// dropped, later duplicates win, and absent fields take their defaults.
// Order header fields (id, number, created, total) are left to the caller.
func Decode(items []Item) domain.StaffRepairOrder {
	values := make(map[string]string, len(items))
	for _, item := range items {
		if IsKnownKey(item.Key) {
			values[item.Key] = item.Value
		}
	}

	out := domain.StaffRepairOrder{
		Stage:          domain.CoerceStage(values[KeyStage]),
		StageUpdatedAt: parseTime(values[KeyStageUpdatedAt]),
		WorkerGroup:    values[KeyWorkerGroup],
		Customer: domain.Customer{
			FullName: values[KeyCustomerFullName],
			Phone:    values[KeyCustomerPhone],
			Email:    optional(values[KeyCustomerEmail]),
			Message:  optional(values[KeyCustomerMessage]),
		},
		Service: domain.ServiceDefinition{
			Name:     values[KeyServiceName],
			Slug:     values[KeyServiceSlug],
			Category: values[KeyServiceCategory],
			Group:    values[KeyServiceGroup],
		},
		DeviceType:        values[KeyDeviceType],
		Urgent:            ParseBool(values[KeyUrgent]),
		NeedsPickup:       ParseBool(values[KeyNeedsPickup]),
		Consent:           ParseBool(values[KeyConsent]),
		Modifiers:         parseModifiers(values[KeyModifiers]),
		LeadGroup:         values[KeyLeadGroup],
		LeadPriorityUntil: parseTime(values[KeyLeadPriorityUntil]),
	}

	if id := values[KeyWorkerID]; id != "" {
		out.Worker = &domain.Assignment{
			WorkerID:    id,
			WorkerEmail: values[KeyWorkerEmail],
			WorkerName:  values[KeyWorkerName],
		}
	}

	switch domain.ContactChannel(values[KeyPreferredContact]) {
	case domain.ContactPhone:
		c := domain.ContactPhone
		out.Customer.PreferredContact = &c
	case domain.ContactEmail:
		c := domain.ContactEmail
		out.Customer.PreferredContact = &c
	}

	minV, maxV, currency := parseNumber(values[KeyPriceMin]), parseNumber(values[KeyPriceMax]), values[KeyPriceCurrency]
	if minV != nil || maxV != nil || currency != "" {
		out.PriceEstimate = &domain.PriceEstimate{Min: minV, Max: maxV, Currency: currency}
	}

	return out
}

// StageUpdate is the partial write for a stage change. Only stage and
// stageUpdatedAt are touched so other keys on the order survive.
func StageUpdate(stage domain.Stage, now time.Time) []Item {
	return []Item{
		{Key: KeyStage, Value: string(stage)},
		{Key: KeyStageUpdatedAt, Value: FormatTime(now)},
	}
}

// AssignmentUpdate is the partial write for a late assignment.
func AssignmentUpdate(a domain.Assignment, now time.Time) []Item {
	return []Item{
		{Key: KeyStage, Value: string(domain.StageAssigned)},
		{Key: KeyStageUpdatedAt, Value: FormatTime(now)},
		{Key: KeyWorkerID, Value: a.WorkerID},
		{Key: KeyWorkerEmail, Value: a.WorkerEmail},
		{Key: KeyWorkerName, Value: a.WorkerName},
	}
}

// Lookup returns the raw value for key, last occurrence winning.
func Lookup(items []Item, key string) (string, bool) {
	value, found := "", false
	for _, item := range items {
		if item.Key == key {
			value, found = item.Value, true
		}
	}
	return value, found
}

// ParseBool is true only for the exact string "true".
func ParseBool(raw string) bool {
	return raw == "true"
}

// FormatBool writes "true" or "false".
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}

// FormatNumber writes the shortest decimal that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime writes RFC 3339 in UTC with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func ordered(values map[string]string) []Item {
	items := make([]Item, 0, len(values))
	for _, key := range Keys {
		if v := values[key]; v != "" {
			items = append(items, Item{Key: key, Value: v})
		}
	}
	return items
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func parseNumber(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseModifiers(raw string) map[string]float64 {
	out := map[string]float64{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]float64{}
	}
	return out
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
