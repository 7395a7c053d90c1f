package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-pasar/internal/obs"
)

// Service opens checkout sessions for precomputed totals. It never derives
// amounts itself; the grand total arrives from the pricing engine.
type Service struct {
	Provider        Provider
	CallbackBaseURL string
}

// CreateSession opens a provider session for the given order and grand total.
func (s *Service) CreateSession(ctx context.Context, orderID string, grandTotal decimal.Decimal) (SessionResponse, error) {
	if s == nil || s.Provider == nil {
		return SessionResponse{}, errors.New("payment service not configured")
	}
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.CreateSession")
	defer span.End()

	result := "error"
	var providerName string
	defer func() {
		span.SetAttributes(
			attribute.String("payment.provider", providerName),
			attribute.String("payment.session.result", result),
		)
		if obs.PaymentSessionTotal != nil {
			obs.PaymentSessionTotal.WithLabelValues(providerName, result).Inc()
		}
	}()

	if orderID == "" {
		return SessionResponse{}, errors.New("order id required")
	}
	if !grandTotal.IsPositive() {
		return SessionResponse{}, fmt.Errorf("grand total must be positive, got %s", grandTotal)
	}
	span.SetAttributes(attribute.String("order.id", orderID))

	resp, err := s.Provider.CreateSession(ctx, SessionRequest{
		OrderID:         orderID,
		Amount:          grandTotal.StringFixed(2),
		CallbackBaseURL: s.CallbackBaseURL,
	})
	if err != nil {
		return SessionResponse{}, fmt.Errorf("create session: %w", err)
	}
	providerName = resp.Provider
	result = "ok"
	return resp, nil
}
