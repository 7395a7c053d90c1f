package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-pasar/internal/common"
)

// Mock is a development provider. Sessions are fabricated locally and
// webhooks are verified with an HMAC over the raw body.
type Mock struct {
	Secret string
}

// CreateSession fabricates a deterministic-looking session handle.
func (m Mock) CreateSession(_ context.Context, req SessionRequest) (SessionResponse, error) {
	if req.OrderID == "" {
		return SessionResponse{}, errors.New("order id required")
	}
	sessionID := "mock-" + uuid.NewString()
	return SessionResponse{
		Provider:    "mock",
		SessionID:   sessionID,
		RedirectURL: fmt.Sprintf("%s/pay/%s", req.CallbackBaseURL, sessionID),
	}, nil
}

type mockWebhookPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// VerifyWebhook checks the X-Signature header against an HMAC-SHA256 of the
// body keyed by the shared secret.
func (m Mock) VerifyWebhook(r *http.Request, body []byte) (WebhookResult, error) {
	signature := r.Header.Get("X-Signature")
	if signature == "" {
		return WebhookResult{}, errors.New("missing signature")
	}
	if !common.HMACEqual([]byte(m.Secret), body, signature) {
		return WebhookResult{Valid: false}, nil
	}
	var payload mockWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookResult{}, fmt.Errorf("decode payload: %w", err)
	}
	if payload.OrderID == "" {
		return WebhookResult{}, errors.New("order_id required")
	}
	return WebhookResult{Valid: true, OrderID: payload.OrderID, Status: payload.Status}, nil
}
