package handler

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v82"
	"pagepulse/internal/cache"
	"pagepulse/internal/model"
	"pagepulse/internal/util"
	"pagepulse/pkg/response"
)

const maxRequestBodyBytes = 1 << 20

// Auditor runs a page audit.
type Auditor interface {
	Audit(ctx context.Context, targetURL string, enhanced bool) (*model.AuditReport, error)
}

// Billing is the subset of the billing client used by the handlers.
type Billing interface {
	HasActiveSubscription(ctx context.Context, customerID string) (bool, error)
	CustomerFromSession(ctx context.Context, sessionID string) (string, error)
	FindActiveCustomerByEmail(ctx context.Context, email string) (string, error)
	ParseWebhook(payload []byte, signature string) (event *stripe.Event, verified bool, err error)
}

type Handler struct {
	auditor      Auditor
	billing      Billing
	entitlements *cache.Entitlements
	quota        *cache.Quota
	proxies      *util.TrustedProxies
}

// New wires the handlers. billing may be nil, in which case billing routes answer
// 503 and pro audits are refused. proxies may be nil to key the free quota by peer
// address only.
func New(auditor Auditor, billing Billing, entitlements *cache.Entitlements, quota *cache.Quota, proxies *util.TrustedProxies) *Handler {
	return &Handler{
		auditor:      auditor,
		billing:      billing,
		entitlements: entitlements,
		quota:        quota,
		proxies:      proxies,
	}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	response.Success(w, resp, "")
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
