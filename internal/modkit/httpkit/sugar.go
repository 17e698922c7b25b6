package httpkit

import (
	"net/http"

	phttp "fraudscore/internal/platform/net/http"
)

// Get mounts a body-less GET handler whose result lands in the envelope's data
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// PostJSON mounts a POST handler that binds and validates T from the body first
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}
