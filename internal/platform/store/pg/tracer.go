package pg

import (
	"context"
	"strings"

	"fraudscore/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events from the sql adapter
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at info, slow ones at warn, regardless of the root level
// Args are not logged: ledger rows carry customer and balance data
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.Err != nil {
		evt = z.log.Error()
	}
	if rid := logger.RequestID(ctx); rid != "" {
		evt = evt.Str("request_id", rid)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Int("nargs", argCount(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// Multi fans one event out to several tracers; nil entries are skipped
// It returns nil when nothing is left so the adapter can skip timing entirely
func Multi(ts ...QueryTracer) QueryTracer {
	var out multi
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

type multi []QueryTracer

func (m multi) OnQuery(ctx context.Context, ev QueryEvent) {
	for _, t := range m {
		t.OnQuery(ctx, ev)
	}
}

func argCount(a any) int {
	if xs, ok := a.([]any); ok {
		return len(xs)
	}
	return 0
}

// compact folds runs of whitespace into one space
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
