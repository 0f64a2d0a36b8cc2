package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"pagepulse/internal/billing"
	"pagepulse/internal/log"
	"pagepulse/internal/metrics"
	"pagepulse/internal/model"
	"pagepulse/pkg/response"
)

const (
	maxWebhookBodyBytes = 65536

	msgBillingDisabled  = "Billing is not configured"
	msgBillingError     = "Billing provider error"
	msgMissingLookupKey = "No customer_id or session_id"
	msgEmailRequired    = "Email is required"
	msgNoSubscription   = "No active subscription found for this email."
)

// SubscriptionHandler reports whether a customer, given directly or through a
// checkout session, has an active subscription.
func (h *Handler) SubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		response.Error(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	if h.billing == nil {
		response.Error(w, http.StatusServiceUnavailable, msgBillingDisabled)
		return
	}

	customerID := r.URL.Query().Get("customer_id")
	sessionID := r.URL.Query().Get("session_id")
	if customerID == "" && sessionID == "" {
		response.Error(w, http.StatusBadRequest, msgMissingLookupKey)
		return
	}

	if customerID == "" {
		id, err := h.billing.CustomerFromSession(r.Context(), sessionID)
		if err != nil {
			log.Logger.Error("checkout session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
			response.Error(w, http.StatusInternalServerError, msgBillingError)
			return
		}
		customerID = id
	}

	if customerID == "" {
		response.Success(w, model.SubscriptionStatus{Active: false}, "")
		return
	}

	active, err := h.billing.HasActiveSubscription(r.Context(), customerID)
	if err != nil {
		log.Logger.Error("subscription lookup failed", zap.String("customer_id", customerID), zap.Error(err))
		h.entitlements.Forget(customerID)
		response.Error(w, http.StatusInternalServerError, msgBillingError)
		return
	}
	h.entitlements.Set(customerID, active)

	response.Success(w, model.SubscriptionStatus{Active: active, CustomerID: customerID}, "")
}

// RestoreHandler finds the subscribed customer for an email address so a user on
// a new device can recover pro access.
func (h *Handler) RestoreHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	if h.billing == nil {
		response.Error(w, http.StatusServiceUnavailable, msgBillingDisabled)
		return
	}

	var req model.RestoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		response.Error(w, http.StatusBadRequest, msgEmailRequired)
		return
	}

	customerID, err := h.billing.FindActiveCustomerByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, billing.ErrNoActiveSubscription) {
			response.Error(w, http.StatusNotFound, msgNoSubscription)
			return
		}
		log.Logger.Error("restore lookup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, msgBillingError)
		return
	}
	h.entitlements.Set(customerID, true)

	response.Success(w, model.SubscriptionStatus{Active: true, CustomerID: customerID}, "")
}

// WebhookHandler consumes Stripe events and keeps the entitlement cache current.
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	if h.billing == nil {
		response.Error(w, http.StatusServiceUnavailable, msgBillingDisabled)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Webhook Error: %v", err))
		return
	}

	event, verified, err := h.billing.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Logger.Warn("rejected webhook", zap.Error(err))
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Webhook Error: %v", err))
		return
	}
	metrics.WebhookEventsTotal.WithLabelValues(billing.EventLabel(event.Type)).Inc()

	effect, ok, err := billing.EffectOf(event)
	if err != nil {
		log.Logger.Warn("malformed webhook event", zap.String("event_id", event.ID), zap.Error(err))
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Webhook Error: %v", err))
		return
	}
	switch {
	case !ok:
	case verified:
		h.entitlements.Set(effect.CustomerID, effect.Active)
	default:
		// unsigned events cannot grant access; the next pro audit asks Stripe
		log.Logger.Warn("unverified webhook, entitlement left to billing lookup",
			zap.String("event_id", event.ID),
			zap.String("customer_id", effect.CustomerID),
		)
		h.entitlements.Forget(effect.CustomerID)
	}

	response.Success(w, model.WebhookAck{Received: true}, "")
}
