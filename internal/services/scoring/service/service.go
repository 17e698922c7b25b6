// Package service runs a scoring request from validated input to a committed ledger row
package service

import (
	"context"
	"time"

	"fraudscore/internal/core/features"
	"fraudscore/internal/core/model"
	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/logger"
	"fraudscore/internal/platform/metrics"
	"fraudscore/internal/services/scoring/domain"
)

// Service defines the scoring contract
type Service interface{ domain.ServicePort }

// Svc implements Service over an injected scorer and ledger
type Svc struct {
	scorer  domain.ScorerPort
	ledger  domain.LedgerPort
	metrics *metrics.Metrics
	now     func() time.Time
}

// New builds the service; metrics may be nil
func New(scorer domain.ScorerPort, ledger domain.LedgerPort, m *metrics.Metrics) *Svc {
	if scorer == nil {
		panic("scoring.Service requires a non nil scorer")
	}
	if ledger == nil {
		panic("scoring.Service requires a non nil ledger")
	}
	return &Svc{scorer: scorer, ledger: ledger, metrics: m, now: time.Now}
}

// ScoreA scores a model1 transaction and records it
func (s *Svc) ScoreA(ctx context.Context, in domain.RequestA) (domain.Response, error) {
	ctx, run := s.start(ctx, model.VariantA)

	tx, err := in.Tx()
	if err != nil {
		return run.reject(err)
	}
	asm, err := features.AssembleA(tx)
	if err != nil {
		return run.reject(err)
	}
	run.reach(domain.StageValidated)
	run.reach(domain.StageFeaturesAssembled)

	label, err := s.scorer.ScoreA(asm.Row)
	if err != nil {
		return run.fault(err)
	}
	run.reach(domain.StageScored)

	return s.persist(ctx, run, domain.Record{
		Model: model.VariantA,
		A: &domain.GroupA{
			Amount:      tx.Amount,
			TimeSeconds: tx.TimeSeconds,
			TimeDays:    tx.TimeDays,
			CustomerID:  tx.CustomerID,
			TerminalID:  tx.TerminalID,
			Datetime:    features.Wall(asm.At),
		},
		Fraud: label,
	})
}

// ScoreB scores a model2 transaction and records it
func (s *Svc) ScoreB(ctx context.Context, in domain.RequestB) (domain.Response, error) {
	ctx, run := s.start(ctx, model.VariantB)

	tx, err := in.Tx()
	if err != nil {
		return run.reject(err)
	}
	run.reach(domain.StageValidated)
	row := features.AssembleB(tx)
	run.reach(domain.StageFeaturesAssembled)

	label, err := s.scorer.ScoreB(row)
	if err != nil {
		return run.fault(err)
	}
	run.reach(domain.StageScored)

	return s.persist(ctx, run, domain.Record{Model: model.VariantB, B: &tx, Fraud: label})
}

// persist is Scored -> Persisted -> Responded; a failed append rejects and the label is dropped
func (s *Svc) persist(ctx context.Context, run *run, rec domain.Record) (domain.Response, error) {
	rcpt, err := s.ledger.Append(ctx, rec)
	if err != nil {
		if _, ok := perr.As(err); !ok {
			err = perr.FromPostgres(err, "persist scored transaction")
		}
		return run.reject(err)
	}
	run.reach(domain.StagePersisted)

	out := domain.Response{Model: rec.Model, Fraud: rec.Fraud, ID: rcpt.ID, CreatedAt: rcpt.CreatedAt}
	run.reach(domain.StageResponded)
	run.done(out)
	return out, nil
}

// outcomes as counted in fraudscore_scoring_requests_total
const (
	outcomeFraud       = "fraud"
	outcomeLegit       = "legit"
	outcomeInvalid     = "invalid"
	outcomeScoring     = "scoring_fault"
	outcomePersistence = "persistence_fault"
)

// run tracks one request through the stages and reports its terminal transition once
type run struct {
	svc     *Svc
	ctx     context.Context
	variant model.Variant
	stage   domain.Stage
	start   time.Time
}

func (s *Svc) start(ctx context.Context, v model.Variant) (context.Context, *run) {
	ctx = logger.WithModel(ctx, string(v))
	return ctx, &run{svc: s, ctx: ctx, variant: v, stage: domain.StageReceived, start: s.now()}
}

func (r *run) reach(st domain.Stage) { r.stage = st }

func (r *run) elapsed() time.Duration { return r.svc.now().Sub(r.start) }

func (r *run) done(out domain.Response) {
	outcome := outcomeLegit
	if out.Fraud == model.Fraud {
		outcome = outcomeFraud
	}
	d := r.elapsed()
	r.svc.metrics.ObserveScoring(string(r.variant), string(r.stage), outcome, d)
	logger.C(r.ctx).Info().
		Str("stage", string(r.stage)).
		Int("fraud", int(out.Fraud)).
		Int64("id", out.ID).
		Dur("elapsed", d).
		Msg("transaction scored")
}

// reject ends in Rejected: from Received on bad input, from Scored when the ledger refuses
func (r *run) reject(err error) (domain.Response, error) {
	from := r.stage
	outcome := outcomeInvalid
	evt := logger.C(r.ctx).Info()
	if from != domain.StageReceived {
		outcome = outcomePersistence
		evt = logger.C(r.ctx).Error()
	}
	r.stage = domain.StageRejected
	d := r.elapsed()
	r.svc.metrics.ObserveScoring(string(r.variant), string(from), outcome, d)

	e, _ := perr.As(err)
	if e != nil && e.Field() != "" {
		evt = evt.Str("field", e.Field())
	}
	evt.Str("stage", string(domain.StageRejected)).
		Str("from", string(from)).
		Str("code", perr.CodeOf(err).String()).
		Dur("elapsed", d).
		Err(err).
		Msg("transaction rejected")
	return domain.Response{}, err
}

// fault is an inference failure: a server error, not a rejection of the caller's input
func (r *run) fault(err error) (domain.Response, error) {
	if !perr.IsCode(err, perr.ErrorCodeScoring) {
		err = perr.Wrap(err, perr.ErrorCodeScoring, "score transaction")
	}
	d := r.elapsed()
	r.svc.metrics.ObserveScoring(string(r.variant), string(r.stage), outcomeScoring, d)
	logger.C(r.ctx).Error().
		Str("stage", string(r.stage)).
		Dur("elapsed", d).
		Err(err).
		Msg("scoring failed")
	return domain.Response{}, err
}

var _ Service = (*Svc)(nil)
