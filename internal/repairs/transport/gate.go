// Package transport holds the intake validation gate and the HTTP DTOs of
// the repairs module.
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/platform/phone"
	"repair_portal_backend/platform/sanitize"
	"repair_portal_backend/platform/validator"
)

// ErrMalformedJSON means the body was not a JSON object.
var ErrMalformedJSON = errors.New("invalid JSON payload")

// ValidationError carries every field-level issue found in a payload.
type ValidationError struct {
	Issues []validator.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// snake_case aliases accepted alongside the canonical camelCase names.
var fieldAliases = map[string]string{
	"full_name":         "fullName",
	"device_type":       "deviceType",
	"service_slug":      "serviceSlug",
	"needs_pickup":      "needsPickup",
	"preferred_contact": "preferredContact",
	"price_estimate":    "priceEstimate",
}

// GateOptions tunes normalization.
type GateOptions struct {
	PhoneRegion string
}

// ParseServiceRequest turns a raw body into a normalized request. It has no
// side effects. A body that is not a JSON object yields ErrMalformedJSON;
// wrong types and rule violations yield *ValidationError.
func ParseServiceRequest(body []byte, val *validator.Validator, opts GateOptions) (domain.RepairServiceRequest, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return domain.RepairServiceRequest{}, ErrMalformedJSON
	}
	fields = canonicalKeys(fields)

	var (
		payload ServiceRequestPayload
		issues  []validator.Issue
	)
	decodeField(fields, "fullName", &payload.FullName, &issues)
	decodeField(fields, "phone", &payload.Phone, &issues)
	decodeField(fields, "email", &payload.Email, &issues)
	decodeField(fields, "message", &payload.Message, &issues)
	decodeField(fields, "deviceType", &payload.DeviceType, &issues)
	decodeField(fields, "serviceSlug", &payload.ServiceSlug, &issues)
	decodeField(fields, "urgent", &payload.Urgent, &issues)
	decodeField(fields, "needsPickup", &payload.NeedsPickup, &issues)
	decodeField(fields, "preferredContact", &payload.PreferredContact, &issues)
	decodeField(fields, "consent", &payload.Consent, &issues)
	payload.PriceEstimate = decodePriceEstimate(fields["priceEstimate"], &issues)
	payload.Modifiers = decodeModifiers(fields["modifiers"], &issues)

	normalizePayload(&payload)

	if err := val.Struct(payload); err != nil {
		issues = mergeIssues(issues, validator.Issues(err))
	}
	if len(issues) > 0 {
		return domain.RepairServiceRequest{}, &ValidationError{Issues: issues}
	}

	return toDomain(payload, opts), nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedJSON
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrMalformedJSON
	}
	return fields, nil
}

// canonicalKeys folds snake_case aliases onto camelCase. The camelCase key
// wins when a body carries both.
func canonicalKeys(fields map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for key, raw := range fields {
		if _, isAlias := fieldAliases[key]; !isAlias {
			out[key] = raw
		}
	}
	for alias, canonical := range fieldAliases {
		raw, ok := fields[alias]
		if !ok {
			continue
		}
		if _, taken := out[canonical]; !taken {
			out[canonical] = raw
		}
	}
	return out
}

func decodeField(fields map[string]json.RawMessage, name string, target any, issues *[]validator.Issue) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, target); err != nil {
		*issues = append(*issues, typeIssue(name, err))
	}
}

func decodePriceEstimate(raw json.RawMessage, issues *[]validator.Issue) *PriceEstimatePayload {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		*issues = append(*issues, validator.Issue{Path: "priceEstimate", Message: "must be an object"})
		return nil
	}
	pe := &PriceEstimatePayload{}
	for _, f := range []struct {
		name   string
		target any
	}{
		{"min", &pe.Min},
		{"max", &pe.Max},
		{"currency", &pe.Currency},
	} {
		if v, ok := fields[f.name]; ok {
			if err := json.Unmarshal(v, f.target); err != nil {
				*issues = append(*issues, typeIssue("priceEstimate."+f.name, err))
			}
		}
	}
	return pe
}

func decodeModifiers(raw json.RawMessage, issues *[]validator.Issue) map[string]float64 {
	out := map[string]float64{}
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		*issues = append(*issues, validator.Issue{Path: "modifiers", Message: "must be an object"})
		return out
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := fields[name]
		var n float64
		if err := json.Unmarshal(value, &n); err != nil || string(value) == "null" {
			*issues = append(*issues, validator.Issue{Path: "modifiers." + name, Message: "must be a number"})
			continue
		}
		out[name] = n
	}
	return out
}

func typeIssue(path string, err error) validator.Issue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return validator.Issue{Path: path, Message: fmt.Sprintf("must be a %s", jsonKind(typeErr.Type.Kind().String()))}
	}
	return validator.Issue{Path: path, Message: "has an invalid value"}
}

func jsonKind(goKind string) string {
	switch goKind {
	case "bool":
		return "boolean"
	case "float64", "int", "int64":
		return "number"
	case "ptr", "string":
		return "string"
	default:
		return goKind
	}
}

func normalizePayload(p *ServiceRequestPayload) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.DeviceType = strings.TrimSpace(p.DeviceType)
	p.ServiceSlug = strings.TrimSpace(p.ServiceSlug)
	p.Email = trimmedOrNil(p.Email)
	if p.Message != nil {
		p.Message = trimmedOrNil(sanitize.TextPtr(p.Message))
	}
	p.PreferredContact = trimmedOrNil(p.PreferredContact)
	if p.PriceEstimate != nil {
		p.PriceEstimate.Currency = strings.ToUpper(strings.TrimSpace(p.PriceEstimate.Currency))
	}
}

// mergeIssues keeps type issues and drops rule issues reported for the same path.
func mergeIssues(typeIssues, ruleIssues []validator.Issue) []validator.Issue {
	seen := make(map[string]struct{}, len(typeIssues))
	for _, issue := range typeIssues {
		seen[issue.Path] = struct{}{}
	}
	out := typeIssues
	for _, issue := range ruleIssues {
		if _, dup := seen[issue.Path]; dup {
			continue
		}
		out = append(out, issue)
	}
	return out
}

func toDomain(p ServiceRequestPayload, opts GateOptions) domain.RepairServiceRequest {
	req := domain.RepairServiceRequest{
		FullName:    p.FullName,
		Phone:       phone.NormalizeE164(p.Phone, opts.PhoneRegion),
		Email:       p.Email,
		Message:     p.Message,
		DeviceType:  p.DeviceType,
		ServiceSlug: p.ServiceSlug,
		Urgent:      p.Urgent,
		NeedsPickup: p.NeedsPickup,
		Consent:     p.Consent,
		Modifiers:   p.Modifiers,
	}
	if p.PreferredContact != nil {
		c := domain.ContactChannel(*p.PreferredContact)
		req.PreferredContact = &c
	}
	if p.PriceEstimate != nil {
		req.PriceEstimate = &domain.PriceEstimate{
			Min:      p.PriceEstimate.Min,
			Max:      p.PriceEstimate.Max,
			Currency: p.PriceEstimate.Currency,
		}
	}
	if req.Modifiers == nil {
		req.Modifiers = map[string]float64{}
	}
	return req
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
