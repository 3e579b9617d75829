// Package webhook delivers the outbound service-request notification.
// Delivery is a single best-effort POST; callers log failures and move on.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/platform/config"
	"repair_portal_backend/platform/logger"
)

const (
	// SignatureHeader carries "sha256=<hex hmac>" of the body when a secret is configured.
	SignatureHeader = "X-Webhook-Signature"
	// EventHeader names the event so receivers can route without parsing.
	EventHeader = "X-Webhook-Event"

	defaultTimeout = 5 * time.Second
	maxErrorBody   = 2 << 10
)

// StatusError is returned when the receiver answers outside 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook receiver returned %d: %s", e.StatusCode, e.Body)
}

// Notifier POSTs service-request notices to the configured URL.
type Notifier struct {
	url        string
	secret     []byte
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a notifier. An empty URL yields a disabled notifier.
func New(cfg config.WebhookConfig, log *logger.Logger) *Notifier {
	timeout := cfg.GetWebhookTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	n := &Notifier{
		url:        cfg.GetServiceRequestWebhookURL(),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	if secret := cfg.GetServiceRequestWebhookSecret(); secret != "" {
		n.secret = []byte(secret)
	}
	if n.url == "" {
		log.Info("SERVICE_REQUEST_WEBHOOK_URL not configured; service request webhook disabled")
	}
	return n
}

// Enabled reports whether a destination URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// NotifyServiceRequest sends exactly one POST. It does not retry.
func (n *Notifier) NotifyServiceRequest(ctx context.Context, notice ports.ServiceRequestNotice) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(NewPayload(notice))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, EventServiceRequestCreated)
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	n.log.Info("service request webhook delivered", "orderId", notice.Order.ID, "status", resp.StatusCode)
	return nil
}

// Sign returns the signature header value for body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

var _ ports.RequestNotifier = (*Notifier)(nil)
