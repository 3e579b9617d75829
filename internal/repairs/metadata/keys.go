// Package metadata maps repair state to and from the commerce backend's flat
// string metadata bag. Callers never read or write raw keys themselves.
package metadata

import "repair_portal_backend/internal/repairs/domain"

// Item is one key/value pair of the bag.
type Item = domain.MetadataItem

// Vocabulary keys. Anything else found on an order is ignored on read.
const (
	KeyStage             = "stage"
	KeyStageUpdatedAt    = "stageUpdatedAt"
	KeyWorkerID          = "workerId"
	KeyWorkerEmail       = "workerEmail"
	KeyWorkerName        = "workerName"
	KeyWorkerGroup       = "workerGroup"
	KeyCustomerFullName  = "customerFullName"
	KeyCustomerPhone     = "customerPhone"
	KeyCustomerEmail     = "customerEmail"
	KeyCustomerMessage   = "customerMessage"
	KeyPreferredContact  = "preferredContact"
	KeyServiceName       = "serviceName"
	KeyServiceSlug       = "serviceSlug"
	KeyServiceCategory   = "serviceCategory"
	KeyServiceGroup      = "serviceGroup"
	KeyDeviceType        = "deviceType"
	KeyUrgent            = "urgent"
	KeyNeedsPickup       = "needsPickup"
	KeyConsent           = "consent"
	KeyPriceMin          = "priceMin"
	KeyPriceMax          = "priceMax"
	KeyPriceCurrency     = "priceCurrency"
	KeyModifiers         = "modifiers"
	KeyLeadGroup         = "leadGroup"
	KeyLeadPriorityUntil = "leadPriorityUntil"
)

// Keys is the fixed vocabulary in encode order.
var Keys = []string{
	KeyStage,
	KeyStageUpdatedAt,
	KeyWorkerID,
	KeyWorkerEmail,
	KeyWorkerName,
	KeyWorkerGroup,
	KeyCustomerFullName,
	KeyCustomerPhone,
	KeyCustomerEmail,
	KeyCustomerMessage,
	KeyPreferredContact,
	KeyServiceName,
	KeyServiceSlug,
	KeyServiceCategory,
	KeyServiceGroup,
	KeyDeviceType,
	KeyUrgent,
	KeyNeedsPickup,
	KeyConsent,
	KeyPriceMin,
	KeyPriceMax,
	KeyPriceCurrency,
	KeyModifiers,
	KeyLeadGroup,
	KeyLeadPriorityUntil,
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keys))
	for _, k := range Keys {
		m[k] = struct{}{}
	}
	return m
}()

// IsKnownKey reports whether key belongs to the vocabulary.
func IsKnownKey(key string) bool {
	_, ok := known[key]
	return ok
}
