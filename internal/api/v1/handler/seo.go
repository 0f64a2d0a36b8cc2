package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"pagepulse/internal/log"
	"pagepulse/internal/model"
	"pagepulse/internal/service"
	"pagepulse/internal/util"
	"pagepulse/pkg/response"
)

// FreeAuditsRemainingHeader tells free clients how many audits they have left today.
const FreeAuditsRemainingHeader = "X-Free-Audits-Remaining"

const (
	msgInvalidURL          = "Invalid URL"
	msgInvalidBody         = "Invalid request body"
	msgSubscriptionNeeded  = "Active subscription required"
	msgSubscriptionUnknown = "Unable to verify subscription"
	msgQuotaExceeded       = "Daily free audit limit reached"
	msgFetchFailed         = "Unable to fetch page"
	msgAuditFailed         = "Failed to audit page"
)

// AuditPageHandler audits the URL in the request body. Pro audits require an
// active subscription; free audits count against the daily quota.
func (h *Handler) AuditPageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}

	var req model.AuditRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if !util.IsValidURL(req.URL) {
		response.Error(w, http.StatusBadRequest, msgInvalidURL)
		return
	}

	if req.Pro {
		entitled, err := h.isEntitled(r.Context(), req.CustomerID)
		if err != nil {
			log.Logger.Error("entitlement lookup failed",
				zap.String("customer_id", req.CustomerID),
				zap.Error(err),
			)
			response.Error(w, http.StatusBadGateway, msgSubscriptionUnknown)
			return
		}
		if !entitled {
			response.Error(w, http.StatusPaymentRequired, msgSubscriptionNeeded)
			return
		}
	} else {
		client := h.proxies.ClientIP(r)
		if !h.quota.Allow(client) {
			response.Error(w, http.StatusTooManyRequests, msgQuotaExceeded)
			return
		}
		if remaining := h.quota.Remaining(client); remaining >= 0 {
			w.Header().Set(FreeAuditsRemainingHeader, strconv.Itoa(remaining))
		}
	}

	report, err := h.auditor.Audit(r.Context(), req.URL, req.Pro)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			response.Error(w, http.StatusBadRequest, msgInvalidURL)
		case errors.Is(err, service.ErrPageUnavailable):
			response.Error(w, http.StatusUnprocessableEntity, msgFetchFailed)
		default:
			log.Logger.Error("audit failed", zap.String("url", req.URL), zap.Error(err))
			response.Error(w, http.StatusInternalServerError, msgAuditFailed)
		}
		return
	}

	response.Success(w, report, "")
}

// isEntitled answers from the entitlement cache, falling back to billing on a miss.
func (h *Handler) isEntitled(ctx context.Context, customerID string) (bool, error) {
	if customerID == "" {
		return false, nil
	}
	if active, found := h.entitlements.Get(customerID); found {
		return active, nil
	}
	if h.billing == nil {
		return false, nil
	}

	active, err := h.billing.HasActiveSubscription(ctx, customerID)
	if err != nil {
		return false, err
	}
	h.entitlements.Set(customerID, active)
	return active, nil
}
