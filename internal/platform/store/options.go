package store

import (
	"fraudscore/internal/platform/logger"
	"fraudscore/internal/platform/store/pg"
)

// Option mutates Store during Open
type Option func(*Store) error

// QueryTracer receives one event per statement
type QueryTracer = pg.QueryTracer

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithQueryTracer adds a tracer next to the SQL log tracer, e.g. a metrics observer
func WithQueryTracer(t QueryTracer) Option {
	return func(s *Store) error {
		if t != nil {
			s.tracers = append(s.tracers, t)
		}
		return nil
	}
}
