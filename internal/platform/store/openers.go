package store

import (
	"context"
	"fmt"
	"time"

	"fraudscore/internal/platform/store/pg"
)

// openPG opens the pool, waits for it to answer, then wraps it with the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	tracers := append([]pg.QueryTracer(nil), s.tracers...)
	if cfg.PG.LogSQL {
		tracers = append(tracers, pg.Tracer(s.Log))
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:              cfg.PG.URL,
		AppName:          cfg.AppName,
		MaxConns:         cfg.PG.MaxConns,
		SlowMs:           cfg.PG.SlowQueryMs,
		StatementTimeout: cfg.PG.StatementTimeout,
	}, pg.Multi(tracers...), nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.retries()
	backoff := backoffStart
	var lastErr error
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, cfg.PG.pingTimeout())
		lastErr = p.Pool.Ping(toCtx) // pool directly so boot pings stay out of the SQL trace
		cancel()

		if lastErr == nil {
			s.Log.Info().Int("attempt", i+1).Msg("postgres ready")
			return newPGAdapter(p), nil
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}
