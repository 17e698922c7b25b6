package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func hit(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestAdaptChi_UseGroupRoute(t *testing.T) {
	r := AdaptChi(chi.NewRouter())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Root", "1")
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "root") })
	r.Group(func(g Router) {
		g.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Group", "1")
				next.ServeHTTP(w, req)
			})
		})
		g.Post("/g", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
	})
	r.Route("/meta", func(sub Router) {
		sub.Get("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "ok") })
	})
	r.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }))

	if rec := hit(r.Mux(), http.MethodGet, "/", ""); rec.Body.String() != "root" || rec.Header().Get("X-Root") != "1" {
		t.Fatalf("root: %d %q", rec.Code, rec.Body.String())
	}
	rec := hit(r.Mux(), http.MethodPost, "/g", "")
	if rec.Code != http.StatusCreated || rec.Header().Get("X-Group") != "1" {
		t.Fatalf("group: %d %v", rec.Code, rec.Header())
	}
	if rec := hit(r.Mux(), http.MethodGet, "/g", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET on POST route: %d", rec.Code)
	}
	if rec := hit(r.Mux(), http.MethodGet, "/meta/health", ""); rec.Body.String() != "ok" {
		t.Fatalf("route: %d %q", rec.Code, rec.Body.String())
	}
	if rec := hit(r.Mux(), http.MethodDelete, "/raw", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("handle: %d", rec.Code)
	}
	if rec := hit(r.Mux(), http.MethodGet, "/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: %d", rec.Code)
	}
}

func TestSugar_GetJSONPostJSON(t *testing.T) {
	r := AdaptChi(chi.NewRouter())
	GetJSON(r, "/v", func(*http.Request) (any, error) { return "1.0", nil })
	PostJSON(r, "/echo", func(_ *http.Request, in struct {
		Msg string `json:"msg" validate:"required"`
	}) (any, error) {
		return in.Msg, nil
	})

	if rec := hit(r.Mux(), http.MethodGet, "/v", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"data":"1.0"`) {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	if rec := hit(r.Mux(), http.MethodPost, "/echo", `{"msg":"hi"}`); !strings.Contains(rec.Body.String(), `"data":"hi"`) {
		t.Fatalf("post: %d %s", rec.Code, rec.Body.String())
	}
	if rec := hit(r.Mux(), http.MethodPost, "/echo", `{"msg":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("post invalid: %d", rec.Code)
	}
}
