// Package http provides the credential endpoints
package http

import (
	stdhttp "net/http"

	"fraudscore/internal/modkit/httpkit"
	"fraudscore/internal/services/credentials/domain"
)

// Register mounts /hash-password and /verify-password
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.HashRequest](r, "/hash-password", h.hash)
	httpkit.PostJSON[domain.VerifyRequest](r, "/verify-password", h.verify)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Hash a password
// @Tags credentials
// @Accept json
// @Produce json
// @Param payload body domain.HashRequest true "Password"
// @Success 200 {object} domain.HashResponse
// @Router /hash-password [post]
func (h *handlers) hash(r *stdhttp.Request, in domain.HashRequest) (any, error) {
	return h.svc.Hash(r.Context(), in)
}

// @Summary Verify a password against a stored hash
// @Tags credentials
// @Accept json
// @Produce json
// @Param payload body domain.VerifyRequest true "Password and hash"
// @Success 200 {object} domain.VerifyResponse
// @Router /verify-password [post]
func (h *handlers) verify(r *stdhttp.Request, in domain.VerifyRequest) (any, error) {
	return h.svc.Verify(r.Context(), in)
}
