package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"fraudscore/internal/platform/logger"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", "select 1"},
		{"INSERT INTO transactions\n\t(tx_amount, fraud)\r\nVALUES ($1, $2)", "INSERT INTO transactions (tx_amount, fraud) VALUES ($1, $2)"},
		{"", ""},
	}
	for i, c := range cases {
		if got := compact(c.in); got != c.want {
			t.Fatalf("case %d: compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

type logLine struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	NArgs     int     `json:"nargs"`
	Args      any     `json:"args"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
	Component string  `json:"component"`
	RequestID string  `json:"request_id"`
}

func emitOne(t *testing.T, tr QueryTracer, ctx context.Context, ev QueryEvent, buf *bytes.Buffer) logLine {
	t.Helper()
	buf.Reset()
	tr.OnQuery(ctx, ev)
	var line logLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal log: %v\nraw=%s", err, buf.String())
	}
	return line
}

func TestTracer_LevelsAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	// root at error level; the tracer must still emit
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	ev := QueryEvent{
		SQL:       "INSERT INTO  transactions\n VALUES ($1, $2)",
		Args:      []any{57.16, "3156"},
		ElapsedUS: 12345,
	}
	ctx := logger.WithRequest(context.Background(), "req-9")

	line := emitOne(t, tr, ctx, ev, &buf)
	if line.Level != "info" || line.Message != "pg query" || line.Component != "pg" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if math.Abs(line.ElapsedMS-12.345) > 0.0005 {
		t.Fatalf("elapsed_ms = %v", line.ElapsedMS)
	}
	if line.SQL != "INSERT INTO transactions VALUES ($1, $2)" {
		t.Fatalf("sql not compacted: %q", line.SQL)
	}
	if line.NArgs != 2 || line.Args != nil {
		t.Fatalf("args must be counted, never logged: nargs=%d args=%v", line.NArgs, line.Args)
	}
	if line.RequestID != "req-9" {
		t.Fatalf("request_id = %q", line.RequestID)
	}

	ev.Slow = true
	if line = emitOne(t, tr, context.Background(), ev, &buf); line.Level != "warn" || !line.Slow {
		t.Fatalf("slow query should warn: %+v", line)
	}

	ev.Err = errors.New("boom")
	if line = emitOne(t, tr, context.Background(), ev, &buf); line.Level != "error" || line.Error != "boom" {
		t.Fatalf("failed query should log error: %+v", line)
	}
}

type counter struct{ n int }

func (c *counter) OnQuery(context.Context, QueryEvent) { c.n++ }

func TestMulti(t *testing.T) {
	t.Parallel()

	if Multi() != nil || Multi(nil, nil) != nil {
		t.Fatalf("Multi with no tracers should be nil")
	}
	a := &counter{}
	if got := Multi(nil, a); got != QueryTracer(a) {
		t.Fatalf("single tracer should be returned as is")
	}
	b := &counter{}
	Multi(a, nil, b).OnQuery(context.Background(), QueryEvent{})
	if a.n != 1 || b.n != 1 {
		t.Fatalf("fan out counts a=%d b=%d", a.n, b.n)
	}
}
