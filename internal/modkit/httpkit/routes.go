package httpkit

import (
	"net/http"

	pstrings "fraudscore/internal/platform/strings"
)

// MountUnder mounts a subrouter at prefix and applies per module middlewares
// A root prefix uses a group so the module's paths stay at the top level
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scoped := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if pstrings.IsRoot(prefix) {
		r.Group(scoped)
		return
	}
	r.Route(pstrings.Prefix(prefix), scoped)
}
