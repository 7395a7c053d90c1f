package pricing

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/obs"
)

// Handler exposes the totals quote endpoint.
type Handler struct {
	Engine   *Engine
	Validate *validator.Validate
}

type quoteItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	VariantID *string `json:"variant_id"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

type quoteAddress struct {
	Country  string `json:"country" validate:"required"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

type quoteRequest struct {
	Items           []quoteItem  `json:"items" validate:"required,min=1,dive"`
	ShippingAddress quoteAddress `json:"shippingAddress" validate:"required"`
}

type quoteLine struct {
	ProductID string `json:"productId"`
	SellerID  string `json:"sellerId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
}

type quoteResponse struct {
	Subtotal     string      `json:"subtotal"`
	TotalTax     string      `json:"totalTax"`
	TotalFreight string      `json:"totalFreight"`
	GrandTotal   string      `json:"grandTotal"`
	Lines        []quoteLine `json:"lines,omitempty"`
}

// QuoteTotals handles POST /quotes/totals. Money fields in the response are
// strings formatted to exactly two decimal places.
func (h *Handler) QuoteTotals(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote engine not configured")
		return
	}
	ctx, span := otel.Tracer("pricing.Handler").Start(r.Context(), "Pricing.QuoteTotals")
	defer span.End()
	start := time.Now()
	result := "error"
	defer func() {
		span.SetAttributes(attribute.String("quote.result", result))
		if obs.QuoteTotal != nil {
			obs.QuoteTotal.WithLabelValues(result).Inc()
		}
		if obs.QuoteDuration != nil {
			obs.QuoteDuration.Observe(obs.DurationMillis(time.Since(start)))
		}
	}()

	var payload quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		result = "bad_request"
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			result = "bad_request"
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
	}

	req := QuoteRequest{
		Lines: make([]CartLine, 0, len(payload.Items)),
		Address: ShippingAddress{
			Country:  payload.ShippingAddress.Country,
			State:    payload.ShippingAddress.State,
			Postcode: payload.ShippingAddress.Postcode,
		},
	}
	for _, item := range payload.Items {
		req.Lines = append(req.Lines, CartLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Qty:       item.Quantity,
		})
	}

	totals, err := h.Engine.Quote(ctx, req)
	if err != nil {
		result = writeQuoteError(w, err)
		return
	}
	span.SetAttributes(attribute.Int("quote.lines", len(totals.Lines)))

	resp := quoteResponse{
		Subtotal:     totals.Subtotal.StringFixed(2),
		TotalTax:     totals.TotalTax.StringFixed(2),
		TotalFreight: totals.TotalFreight.StringFixed(2),
		GrandTotal:   totals.GrandTotal.StringFixed(2),
	}
	for _, line := range totals.Lines {
		resp.Lines = append(resp.Lines, quoteLine{
			ProductID: line.ProductID,
			SellerID:  line.SellerID,
			Quantity:  line.Qty,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Subtotal:  line.Subtotal.StringFixed(2),
			Tax:       line.Tax.StringFixed(2),
		})
	}
	result = "ok"
	common.JSON(w, http.StatusOK, resp)
}

// writeQuoteError maps engine failures onto the two-bucket error contract:
// malformed input is a 400, lookup and calculation failures are 500s.
func writeQuoteError(w http.ResponseWriter, err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return "bad_request"
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrVariantNotFound):
		common.JSONError(w, http.StatusInternalServerError, "LOOKUP_FAILED", err.Error())
		return "not_found"
	default:
		common.JSONError(w, http.StatusInternalServerError, "UPSTREAM", err.Error())
		return "upstream_error"
	}
}
