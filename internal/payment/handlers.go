package payment

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pasar/internal/common"
)

// Handler exposes session creation over HTTP.
type Handler struct {
	Svc *Service
}

type sessionRequest struct {
	OrderID    string `json:"order_id"`
	GrandTotal string `json:"grand_total"`
}

type sessionResponse struct {
	Provider    string `json:"provider"`
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// CreateSession handles POST /payments/sessions. The grand total arrives as a
// two-decimal string produced by the quote endpoint.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "payment service not configured")
		return
	}
	var payload sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}
	if payload.OrderID == "" {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "order_id is required")
		return
	}
	amount, err := decimal.NewFromString(payload.GrandTotal)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "grand_total must be a decimal string")
		return
	}
	session, err := h.Svc.CreateSession(r.Context(), payload.OrderID, amount)
	if err != nil {
		common.JSONError(w, http.StatusBadGateway, "PROVIDER_ERROR", err.Error())
		return
	}
	common.JSON(w, http.StatusCreated, sessionResponse{
		Provider:    session.Provider,
		SessionID:   session.SessionID,
		RedirectURL: session.RedirectURL,
	})
}
