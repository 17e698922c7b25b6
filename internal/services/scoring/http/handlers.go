// Package http provides the scoring endpoints
package http

import (
	stdhttp "net/http"

	"fraudscore/internal/modkit/httpkit"
	"fraudscore/internal/services/scoring/domain"
)

// Register mounts the predict routes; the module mounts them under /predict
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RequestA](r, "/model1", h.model1)
	httpkit.PostJSON[domain.RequestB](r, "/model2", h.model2)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Score a card transaction with model1
// @Tags scoring
// @Accept json
// @Produce json
// @Param payload body domain.RequestA true "Transaction"
// @Success 200 {object} domain.Response
// @Router /predict/model1 [post]
func (h *handlers) model1(r *stdhttp.Request, in domain.RequestA) (any, error) {
	return h.svc.ScoreA(r.Context(), in)
}

// @Summary Score a mobile money transfer with model2
// @Tags scoring
// @Accept json
// @Produce json
// @Param payload body domain.RequestB true "Transfer"
// @Success 200 {object} domain.Response
// @Router /predict/model2 [post]
func (h *handlers) model2(r *stdhttp.Request, in domain.RequestB) (any, error) {
	return h.svc.ScoreB(r.Context(), in)
}
