package handler

import (
	"net/http"

	"github.com/tixify/tixify-server/internal/model"
	"github.com/tixify/tixify-server/internal/service"
)

// PaymentHandler holds the HTTP handlers for payments.
type PaymentHandler struct {
	svc *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Create handles POST /payments (authenticated).
// Records the payment payload; nothing at this layer talks to a gateway.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
