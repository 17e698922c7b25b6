package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fraudscore/internal/core/model"
	phttp "fraudscore/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type models struct{ n int }

func (m models) Info() model.Info {
	out := model.Info{Manifest: "models/manifest.yaml"}
	for i := 0; i < m.n; i++ {
		out.Variants = append(out.Variants, model.VariantInfo{Variant: model.VariantA})
	}
	return out
}

var (
	started = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	now     = started.Add(5 * time.Minute)
)

func serve(d Deps) stdhttp.Handler {
	d.StartedAt = started
	d.Now = func() time.Time { return now }
	d.ServiceName = "fraudscore-api"
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	Register(r, d)
	RegisterBanner(r, d.ServiceName)
	return mux
}

func get(t *testing.T, h stdhttp.Handler, path string, data any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("%s data: %v", path, err)
		}
	}
	return rec.Code
}

func TestHealthServiceAndBanner(t *testing.T) {
	h := serve(Deps{})

	var hr HealthResponse
	if code := get(t, h, "/health", &hr); code != 200 || !hr.OK || hr.Now != "2026-10-19T08:05:00Z" {
		t.Fatalf("health = %d %+v", code, hr)
	}
	var sr ServiceResponse
	if get(t, h, "/service", &sr); sr.Uptime != 300 || sr.Instance == "" {
		t.Fatalf("service = %+v", sr)
	}
	var br BannerResponse
	if get(t, h, "/", &br); br.Service != "fraudscore-api" || br.Message == "" {
		t.Fatalf("banner = %+v", br)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		deps   Deps
		code   int
		status string
	}{
		{"all good", Deps{PG: pinger{}, Models: models{n: 2}}, 200, "ok"},
		{"pg down", Deps{PG: pinger{err: errors.New("connection refused")}, Models: models{n: 2}}, 503, "fail"},
		{"pg not configured", Deps{Models: models{n: 2}}, 503, "fail"},
		{"no models", Deps{PG: pinger{}}, 503, "fail"},
		{"empty registry", Deps{PG: pinger{}, Models: models{}}, 503, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rr ReadyResponse
			code := get(t, serve(tc.deps), "/ready", &rr)
			if code != tc.code || rr.Status != tc.status || len(rr.Checks) != 2 {
				t.Fatalf("ready = %d %+v", code, rr)
			}
		})
	}
}

func TestModels(t *testing.T) {
	var info model.Info
	if get(t, serve(Deps{Models: models{n: 2}}), "/models", &info); len(info.Variants) != 2 {
		t.Fatalf("models = %+v", info)
	}
	if get(t, serve(Deps{}), "/models", &info); len(info.Variants) != 0 {
		t.Fatalf("nil models = %+v", info)
	}
}

func TestVersion(t *testing.T) {
	var bi struct {
		Service string `json:"service"`
	}
	if get(t, serve(Deps{}), "/version", &bi); bi.Service != "fraudscore-api" {
		t.Fatalf("version = %+v", bi)
	}
}
