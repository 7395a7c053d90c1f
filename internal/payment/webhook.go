package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/lock"
	"github.com/noah-isme/backend-pasar/internal/obs"
)

// Webhook handles payment confirmation callbacks: signature verification,
// replay protection, and idempotent order settlement.
type Webhook struct {
	Providers map[string]Provider
	Orders    OrderStore
	Replay    *redis.Client
	ReplayTTL time.Duration
	Lock      *lock.Locker
	Logger    zerolog.Logger
}

// Handle processes a callback for the provider named in the URL.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	providerKey := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "provider")))
	result := "error"
	defer func() {
		if obs.PaymentWebhookTotal != nil {
			obs.PaymentWebhookTotal.WithLabelValues(providerKey, result).Inc()
		}
	}()

	if h.Providers == nil || h.Orders == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "webhook unavailable")
		return
	}
	provider, ok := h.Providers[providerKey]
	if !ok {
		result = "unknown_provider"
		common.JSONError(w, http.StatusNotFound, "PROVIDER_NOT_SUPPORTED", "unknown provider")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to read payload")
		return
	}
	verified, err := provider.VerifyWebhook(r, body)
	if err != nil {
		result = "invalid"
		common.JSONError(w, http.StatusBadRequest, "WEBHOOK_INVALID", err.Error())
		return
	}
	if !verified.Valid {
		result = "invalid_signature"
		common.JSONError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "signature verification failed")
		return
	}

	if h.Replay != nil && h.ReplayTTL > 0 {
		key := fmt.Sprintf("wh:%s:%s", providerKey, common.Sha256Hex(string(body)))
		ok, err := h.Replay.SetNX(r.Context(), key, "1", h.ReplayTTL).Result()
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "REPLAY_STORE_ERROR", err.Error())
			return
		}
		if !ok {
			result = "replay"
			common.JSONError(w, http.StatusConflict, "REPLAY", "duplicate webhook")
			return
		}
	}

	if !isPaidStatus(verified.Status) {
		// Non-settlement statuses are acknowledged and dropped.
		result = "ignored"
		common.JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err := h.settle(r, verified.OrderID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			result = "order_not_found"
			common.JSONError(w, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
			return
		}
		h.Logger.Error().Err(err).Str("order_id", verified.OrderID).Msg("settle order")
		common.JSONError(w, http.StatusInternalServerError, "SETTLEMENT_FAILED", err.Error())
		return
	}
	result = "ok"
	common.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// settle marks the order paid, serialized per order when a locker is
// configured so concurrent callbacks with differing bodies cannot race.
func (h Webhook) settle(r *http.Request, orderID string) error {
	if h.Lock == nil {
		return h.Orders.MarkPaid(r.Context(), orderID)
	}
	return h.Lock.WithLock(r.Context(), "lock:settle:"+orderID, 15*time.Second, func(ctx context.Context) error {
		return h.Orders.MarkPaid(ctx, orderID)
	})
}

func isPaidStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "paid", "settlement", "capture", "succeeded":
		return true
	}
	return false
}
