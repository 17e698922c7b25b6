// Package swaggerkit serves the API's OpenAPI document and the swagger UI over it
package swaggerkit

import (
	"net/http"

	phttp "fraudscore/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options controls the docs mount
type Options struct {
	Enabled     bool
	TitleSuffix string
	// ServerURL goes into servers when the document has none
	ServerURL string
}

// Mount serves /api/docs/doc.json and the UI under /api/docs/ when enabled
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(o))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("fraudscore"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
