package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "fraudscore/internal/platform/net/http"
	"fraudscore/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func mounted(o Options) http.Handler {
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), o)
	return mux
}

func getDoc(t *testing.T, h http.Handler) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("doc.json status = %d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return spec
}

func TestEmbeddedDocumentParses(t *testing.T) {
	var spec map[string]any
	if err := json.Unmarshal(openapiJSON, &spec); err != nil {
		t.Fatalf("openapi.json: %v", err)
	}
	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/predict/model1", "/predict/model2", "/hash-password", "/verify-password"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
}

func TestMount_Disabled(t *testing.T) {
	rec := httptest.NewRecorder()
	mounted(Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMount_DocDecorated(t *testing.T) {
	spec := getDoc(t, mounted(Options{Enabled: true, TitleSuffix: "(staging)", ServerURL: "https://score.example"}))

	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if title := spec["info"].(map[string]any)["title"]; title != "fraudscore API (staging)" {
		t.Fatalf("title = %v", title)
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "https://score.example" {
		t.Fatalf("servers = %v", servers)
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema missing")
	}
	op := spec["paths"].(map[string]any)["/predict/model1"].(map[string]any)["post"].(map[string]any)
	resps := op["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "500"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("response %s missing", code)
		}
	}
}

func TestMount_RedirectAndUI(t *testing.T) {
	h := mounted(Options{Enabled: true})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/index.html", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ui status = %d", rec.Code)
	}
}

func TestServeDocJSON_BrokenDocument(t *testing.T) {
	testkit.Swap(t, &docReader, func() []byte { return []byte("{") })
	rec := httptest.NewRecorder()
	mounted(Options{Enabled: true}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRegisterMutator(t *testing.T) {
	testkit.Swap(t, &mutators, nil)
	Register(nil)
	Register(func(spec map[string]any) { spec["x-instance"] = "abc" })
	if len(mutators) != 1 {
		t.Fatalf("mutators = %d", len(mutators))
	}
	if spec := getDoc(t, mounted(Options{Enabled: true})); spec["x-instance"] != "abc" {
		t.Fatal("mutator not applied")
	}
}

func TestEnsureServers_Downgrades(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "")
	if spec["openapi"] != "3.0.3" || spec["swagger"] != nil {
		t.Fatalf("spec = %v", spec)
	}
	spec = map[string]any{"openapi": "3.1.0", "servers": []any{}}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if len(spec["servers"].([]any)) != 0 {
		t.Fatal("existing servers must be kept")
	}
}
