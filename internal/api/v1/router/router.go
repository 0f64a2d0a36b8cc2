package router

import (
	"net/http"

	"pagepulse/internal/api/v1/handler"
	"pagepulse/internal/api/v1/middleware"
	"pagepulse/internal/log"
	"pagepulse/pkg/response"
)

const (
	appName    = "pagepulse"
	apiVersion = "v1"
	basePath   = "/" + appName + "/api/" + apiVersion
)

type Options struct {
	RateLimiter   *middleware.RateLimiter
	AllowedOrigin string
}

func New(h *handler.Handler, opts Options) http.Handler {
	mux := http.NewServeMux()
	knownPaths := make(map[string]bool)

	register := func(path string, fn http.HandlerFunc) {
		knownPaths[basePath+path] = true
		mux.HandleFunc(basePath+path, fn)
	}

	register("/health", h.HealthCheckHandler)
	register("/seo", h.AuditPageHandler)
	register("/subscription", h.SubscriptionHandler)
	register("/restore", h.RestoreHandler)
	register("/webhook", h.WebhookHandler)

	var chain http.Handler = middleware.Metrics(knownPaths, mux)
	if opts.RateLimiter != nil {
		chain = opts.RateLimiter.Middleware(chain)
	}

	return middleware.RecoverPanic(
		log.Logger,
		func(w http.ResponseWriter, r *http.Request, err error) {
			response.Error(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		},
		middleware.SecureHeaders(
			middleware.Logging(
				middleware.Compression(
					middleware.CORS(opts.AllowedOrigin)(chain),
				),
			),
		),
	)
}

// NewMetricsRouter serves /metrics, behind basic auth when credentials are given.
func NewMetricsRouter(username, password string) http.Handler {
	mux := http.NewServeMux()

	var metrics http.Handler = handler.MetricsHandler()
	if username != "" && password != "" {
		metrics = middleware.BasicAuth(username, password)(metrics)
	}
	mux.Handle("/metrics", metrics)

	return mux
}
