package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var panicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "pagepulse_http_panics_total",
	Help: "Handler panics recovered by the API server",
})

func init() {
	prometheus.MustRegister(panicsTotal)
}

// RecoverPanic turns a handler panic into a logged error and a call to onPanic.
// http.ErrAbortHandler is re-raised so net/http can abort the connection quietly.
func RecoverPanic(logger *zap.Logger, onPanic func(http.ResponseWriter, *http.Request, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			panicsTotal.Inc()

			w.Header().Set("Connection", "close")
			logger.Error("panic recovered",
				zap.Any("error", rec),
				zap.String("request_id", w.Header().Get(RequestIDHeader)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.ByteString("stack", debug.Stack()),
			)

			onPanic(w, r, fmt.Errorf("%v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
