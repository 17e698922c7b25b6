// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"fraudscore/internal/core/model"
	"fraudscore/internal/core/version"
	"fraudscore/internal/modkit/httpkit"
	"fraudscore/internal/modkit/repokit"
)

// ModelInfo is the registry summary source
type ModelInfo interface {
	Info() model.Info
}

// Deps are the handler dependencies; nil PG or Models report as not ready
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          repokit.Pinger
	Models      ModelInfo
	Now         func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/models", h.models)
}

// RegisterBanner mounts GET / with the service banner
func RegisterBanner(r httpkit.Router, serviceName string) {
	httpkit.Get(r, "/", func(*http.Request) (any, error) {
		return BannerResponse{
			Message: "Fraud Detection API running",
			Service: serviceName,
			Version: version.Info().Version,
		}, nil
	})
}

// BannerResponse is the root payload
type BannerResponse struct {
	Message string `json:"message" example:"Fraud Detection API running"`
	Service string `json:"service" example:"fraudscore-api"`
	Version string `json:"version" example:"v1.2.0"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"fraudscore-api"`
	Started string `json:"started" example:"2026-10-19T08:00:00Z"`
	Now     string `json:"now"     example:"2026-10-19T08:05:00Z"`
}

// ReadyCheck is one dependency result
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse summarizes readiness; any failed check makes the endpoint answer 503
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-19T08:05:00Z"`
}

// ServiceResponse is name and uptime
type ServiceResponse struct {
	Name     string `json:"name"     example:"fraudscore-api"`
	Instance string `json:"instance" example:"7d3c0e9e-5a57-4c2e-9f7e-0c1f3b2f7a10"`
	Started  string `json:"started"  example:"2026-10-19T08:00:00Z"`
	Uptime   int64  `json:"uptime"   example:"300"`
}

// @Summary Liveness
// @Tags meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness: database reachable and models loaded
// @Tags meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), repokit.DefaultPingTimeout)
	defer cancel()

	pg := ReadyCheck{Name: "pg", Status: "ok"}
	if err := repokit.Ping(ctx, "pg", h.deps.PG); err != nil {
		pg.Status, pg.Error = "fail", err.Error()
	}

	models := ReadyCheck{Name: "models", Status: "ok"}
	if h.deps.Models == nil || len(h.deps.Models.Info().Variants) == 0 {
		models.Status, models.Error = "fail", "model registry not loaded"
	}

	out := ReadyResponse{
		Status: "ok",
		Checks: []ReadyCheck{pg, models},
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}
	if pg.Status != "ok" || models.Status != "ok" {
		out.Status = "fail"
		return httpkit.Status(http.StatusServiceUnavailable, out), nil
	}
	return out, nil
}

// @Summary Build and instance
// @Tags meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service name and uptime
// @Tags meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:     h.deps.ServiceName,
		Instance: version.Instance(),
		Started:  h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:   int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary Loaded model artifacts
// @Tags meta
// @Produce json
// @Success 200 {object} model.Info
// @Router /meta/models [get]
func (h *handlers) models(_ *http.Request) (any, error) {
	if h.deps.Models == nil {
		return model.Info{Variants: []model.VariantInfo{}}, nil
	}
	return h.deps.Models.Info(), nil
}
