package middleware

import (
	"net/http"
	"runtime/debug"

	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/logger"
	phttp "fraudscore/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into a 500 envelope and logs the stack
// http.ErrAbortHandler is re-raised so net/http can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")
			phttp.RespondError(w, r, perr.PanicErrf("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
