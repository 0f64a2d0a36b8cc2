package debug

import (
	"net/http"
	_ "net/http/pprof"
	"time"

	"go.uber.org/zap"
	"pagepulse/internal/log"
)

// StartPprof serves the pprof handlers on host. Only started in dev.
func StartPprof(host string) {
	go func() {
		log.Logger.Info("pprof listening", zap.String("host", host))
		server := &http.Server{
			Addr:              host,
			Handler:           http.DefaultServeMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		if err := server.ListenAndServe(); err != nil {
			log.Logger.Error("pprof failed", zap.Error(err))
		}
	}()
}
