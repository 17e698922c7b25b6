// Package middleware provides thin adapters over chi middleware without leaking chi types
package middleware

import (
	"net/http"
	"time"

	pnet "fraudscore/internal/platform/net"
	pstrings "fraudscore/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestIDHeader is read from clients and echoed on every response
const RequestIDHeader = "X-Request-ID"

// RequestID accepts or generates a request id, makes it visible to logger.C and echoes it back
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		bridge := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := chimw.GetReqID(r.Context())
			if rid != "" {
				w.Header().Set(RequestIDHeader, rid)
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithRequest(r.Context(), rid)))
		})
		return chimw.RequestID(bridge)
	}
}

// RealIP sets RemoteAddr to the upstream IP based on X-Forwarded-For headers
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d; d <= 0 disables it
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.Timeout(d)
}

// NoCache sets headers to disable client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress wraps chi's compressor. level usually flate.DefaultCompression or flate.BestSpeed
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return func(next http.Handler) http.Handler { return c.Handler(next) }
}

// Heartbeat replies with 200 OK to GET path, useful for LB health checks
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// DefaultOrigins are the dashboard origins allowed when none are configured
var DefaultOrigins = []string{"http://localhost:8081", "http://127.0.0.1:8081"}

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors, filling empty fields with what the scoring API needs
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   pstrings.IfEmpty(o.AllowedOrigins, DefaultOrigins),
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", RequestIDHeader}),
		ExposedHeaders:   pstrings.IfEmpty(o.ExposedHeaders, []string{RequestIDHeader}),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
