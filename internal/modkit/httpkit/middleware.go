package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"fraudscore/internal/platform/metrics"
	"fraudscore/internal/platform/net/middleware"
)

// StackOptions tunes the root middleware stack
type StackOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration
	Metrics        *metrics.Metrics
}

// CommonStack is the root middleware chain, outermost first
// Request ids come first so every later log line and the panic envelope carry one
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		o.Metrics.Middleware,
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: o.SlowRequest,
			Skip: []string{"/metrics", "/meta/health", "/health"},
		}),
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins:   o.CORSOrigins,
			AllowCredentials: true,
		}),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.Timeout(o.RequestTimeout),
	}
}
