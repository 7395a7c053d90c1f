package payment

import (
	"context"
	"net/http"
)

// SessionRequest captures what is needed to open a checkout session with a
// provider. Amount is the precomputed grand total formatted to two decimal
// places; providers never recompute it.
type SessionRequest struct {
	OrderID         string
	Amount          string
	CallbackBaseURL string
}

// SessionResponse is the opaque session handle returned by a provider.
type SessionResponse struct {
	Provider    string
	SessionID   string
	RedirectURL string
}

// WebhookResult contains the normalised data extracted from a payment
// confirmation callback after signature verification.
type WebhookResult struct {
	Valid   bool
	OrderID string
	Status  string
}

// Provider abstracts the upstream payment provider.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (SessionResponse, error)
	VerifyWebhook(r *http.Request, body []byte) (WebhookResult, error)
}
