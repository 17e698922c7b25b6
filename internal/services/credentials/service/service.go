// Package service runs hash and verify calls through a bounded worker budget
package service

import (
	"context"
	"runtime"

	"fraudscore/internal/core/credential"
	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/logger"
	"fraudscore/internal/platform/metrics"
	"fraudscore/internal/services/credentials/domain"

	"golang.org/x/sync/semaphore"
)

// Service defines the credentials contract
type Service interface{ domain.ServicePort }

// Svc implements Service
// Each scrypt derivation holds about 128*N*r bytes, so concurrent work is capped
type Svc struct {
	hasher  domain.HasherPort
	metrics *metrics.Metrics
	slots   *semaphore.Weighted
}

// New builds the service; maxConcurrent <= 0 means one slot per CPU
func New(h domain.HasherPort, m *metrics.Metrics, maxConcurrent int) *Svc {
	if h == nil {
		panic("credentials.Service requires a non nil hasher")
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.NumCPU()
	}
	return &Svc{hasher: h, metrics: m, slots: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Hash returns a fresh hash of the password
func (s *Svc) Hash(ctx context.Context, in domain.HashRequest) (domain.HashResponse, error) {
	if in.Password == nil {
		return domain.HashResponse{}, perr.Validationf("password", "password is required")
	}
	if err := s.acquire(ctx); err != nil {
		s.metrics.ObserveCredential("hash", "error")
		return domain.HashResponse{}, err
	}
	defer s.slots.Release(1)

	hashed, err := s.hasher.Hash(*in.Password)
	if err != nil {
		s.metrics.ObserveCredential("hash", "error")
		logger.C(ctx).Error().Err(err).Msg("password hash failed")
		return domain.HashResponse{}, err
	}
	s.metrics.ObserveCredential("hash", "ok")
	return domain.HashResponse{Hashed: hashed}, nil
}

// Verify checks the password; malformed hashes are a plain false, never an error
func (s *Svc) Verify(ctx context.Context, in domain.VerifyRequest) (domain.VerifyResponse, error) {
	if in.Password == nil {
		return domain.VerifyResponse{}, perr.Validationf("password", "password is required")
	}
	if in.Hashed == nil {
		return domain.VerifyResponse{}, perr.Validationf("hashed", "hashed is required")
	}
	if err := s.acquire(ctx); err != nil {
		s.metrics.ObserveCredential("verify", "error")
		return domain.VerifyResponse{}, err
	}
	defer s.slots.Release(1)

	ok := s.hasher.Verify(*in.Password, *in.Hashed)
	if !ok {
		s.metrics.ObserveCredential("verify", "mismatch")
		return domain.VerifyResponse{Valid: false}, nil
	}
	s.metrics.ObserveCredential("verify", "ok")
	if s.hasher.NeedsRehash(*in.Hashed) {
		logger.C(ctx).Info().
			Str("scheme", string(credential.Identify(*in.Hashed))).
			Msg("verified hash uses a deprecated scheme or cost")
	}
	return domain.VerifyResponse{Valid: true}, nil
}

func (s *Svc) acquire(ctx context.Context) error {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return perr.Wrap(err, perr.ErrorCodeTimeout, "waiting for a credential worker")
	}
	return nil
}

var _ Service = (*Svc)(nil)
