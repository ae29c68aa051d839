package handler

import (
	"io"
	"net/http"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/service"
)

// Stripe webhook payloads are small; cap reads well above any real event
const maxWebhookBody = 1 << 20

type billingHandler struct {
	billingService *service.BillingService
}

func NewBillingHandler(billingService *service.BillingService) *billingHandler {
	return &billingHandler{billingService: billingService}
}

type subscribeRequest struct {
	PriceID string `json:"price_id"`
}

type subscribeResponse struct {
	URL string `json:"url"`
}

// Subscribe creates a checkout session for the requested plan and returns
// the URL the client should redirect to.
func (h *billingHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	var req subscribeRequest
	err := decodeJSON(r, &req)
	if err != nil || req.PriceID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "price_id is required")
		return
	}

	url, err := h.billingService.CheckoutURL(principal.User, req.PriceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subscribeResponse{URL: url})
}

// Webhook receives subscription lifecycle events. Signature verification
// happens in the service; an invalid signature is a client error so the
// sender does not retry forever.
func (h *billingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	err = h.billingService.HandleWebhook(payload, r.Header)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "webhook rejected")
		return
	}

	w.WriteHeader(http.StatusOK)
}
