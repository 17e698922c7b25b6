package middleware_test

import (
	"compress/flate"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/logger"
	phttp "fraudscore/internal/platform/net/http"
	"fraudscore/internal/platform/net/middleware"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen, seenLog string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenLog = logger.RequestID(r.Context())
		seen = w.Header().Get(middleware.RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(middleware.RequestIDHeader) != seen {
		t.Fatalf("header = %q, handler saw %q", rec.Header().Get(middleware.RequestIDHeader), seen)
	}
	if seenLog != seen {
		t.Fatalf("logger ctx id = %q, want %q", seenLog, seen)
	}
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	h := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "client-42" {
		t.Fatalf("header = %q", got)
	}
}

func TestRecoverJSON_WritesPanicEnvelope(t *testing.T) {
	h := middleware.RequestID()(middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("model exploded")
	})))
	req := httptest.NewRequest(http.MethodPost, "/predict/model1", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-p")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Code != perr.ErrorCodePanic || env.RequestID != "rid-p" {
		t.Fatalf("envelope = %+v", env)
	}
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Fatal("panic value leaked to client")
	}
}

func TestRecoverJSON_ReraisesAbort(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Fatalf("recovered %v", v)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestAccessLog_PassesThrough(t *testing.T) {
	mw := middleware.AccessLog(middleware.AccessLogOptions{Slow: time.Nanosecond, Skip: []string{"/metrics"}})
	for _, path := range []string{"/", "/metrics"} {
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, "done")
			w.WriteHeader(http.StatusOK) // superfluous, must not change the logged or sent status
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusCreated || rec.Body.String() != "done" {
			t.Fatalf("%s: %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

func TestTimeout_CancelsContext(t *testing.T) {
	var ctxErr error
	h := middleware.Timeout(10 * time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		ctxErr = r.Context().Err()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if ctxErr != context.DeadlineExceeded {
		t.Fatalf("ctx err = %v", ctxErr)
	}
}

func TestTimeout_ZeroDisables(t *testing.T) {
	var deadline bool
	h := middleware.Timeout(0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if deadline {
		t.Fatal("zero timeout must not set a deadline")
	}
}

func TestCompress_GzipWhenAccepted(t *testing.T) {
	h := middleware.Compress(flate.DefaultCompression)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.Repeat("a", 4<<10))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("encoding = %q", rec.Header().Get("Content-Encoding"))
	}
}

func TestCORS_DefaultOriginsWithCredentials(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowCredentials: true})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	pre := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/predict/model1", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := pre("http://localhost:8081")
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8081" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials not allowed")
	}
	if rec := pre("https://evil.example"); rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("foreign origin allowed")
	}
}

func TestHeartbeatAndNoCache(t *testing.T) {
	h := middleware.Heartbeat("/ping")(middleware.NoCache()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("heartbeat = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusTeapot || rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("passthrough = %d %v", rec.Code, rec.Header())
	}
}
