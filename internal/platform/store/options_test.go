package store

import (
	"bytes"
	"context"
	"testing"

	"fraudscore/internal/platform/store/pg"

	"github.com/rs/zerolog"
)

func TestWithLogger_SetsOnStore(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := &Store{}
	if err := WithLogger(zerolog.New(&buf))(s); err != nil {
		t.Fatalf("WithLogger: %v", err)
	}
	s.Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("expected logger to write to buffer")
	}
}

func TestWithQueryTracer_AppendsAndSkipsNil(t *testing.T) {
	t.Parallel()

	s := &Store{}
	tr := &capture{}
	for _, o := range []Option{WithQueryTracer(nil), WithQueryTracer(tr)} {
		if err := o(s); err != nil {
			t.Fatalf("option: %v", err)
		}
	}
	if len(s.tracers) != 1 {
		t.Fatalf("want 1 tracer, got %d", len(s.tracers))
	}

	// fan out through pg.Multi the same way openPG does
	pg.Multi(s.tracers...).OnQuery(context.Background(), pg.QueryEvent{SQL: "select 1"})
	if evs := tr.events(); len(evs) != 1 || evs[0].SQL != "select 1" {
		t.Fatalf("tracer did not receive event: %+v", evs)
	}
}
