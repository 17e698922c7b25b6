package store

import (
	"context"
	"errors"
	"time"

	"fraudscore/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the slice of *pgxpool.Pool the adapter drives
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// pgAdapter implements RowQuerier and TxRunner over a pool and traces every statement
type pgAdapter struct {
	db pool
	tr tracing
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		db: p.Pool,
		tr: tracing{tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
	}
}

// Ping round trips a SELECT 1 so readiness also proves a usable session
func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error {
	if a != nil && a.db != nil {
		a.db.Close()
	}
	return nil
}

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return traceExec(ctx, a.tr, a.db, sql, args)
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return traceQuery(ctx, a.tr, a.db, sql, args)
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return traceQueryRow(ctx, a.tr, a.db, sql, args)
}

// Tx runs fn in one transaction
// fn returning nil commits; an error, a panic, or a cancelled ctx rolls back
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) (err error) {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		// rollback must run even when ctx is already done
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		_ = tx.Rollback(rbCtx)
		cancel()
	}()

	if err = fn(txQuerier{tx: tx, tr: a.tr}); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

const rollbackTimeout = 5 * time.Second

// txQuerier routes statements through an open pgx.Tx with the same tracing as the pool
type txQuerier struct {
	tx pgx.Tx
	tr tracing
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return traceExec(ctx, t.tr, t.tx, sql, args)
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return traceQuery(ctx, t.tr, t.tx, sql, args)
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return traceQueryRow(ctx, t.tr, t.tx, sql, args)
}

// pgxQuerier is what pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func traceExec(ctx context.Context, tr tracing, q pgxQuerier, sql string, args []any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.Exec(ctx, sql, args...)
	tr.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func traceQuery(ctx context.Context, tr tracing, q pgxQuerier, sql string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := q.Query(ctx, sql, args...)
	// timed to open, not to last scan
	tr.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func traceQueryRow(ctx context.Context, tr tracing, q pgxQuerier, sql string, args []any) Row {
	start := time.Now()
	r := q.QueryRow(ctx, sql, args...)
	return row{
		r: r,
		after: func(scanErr error) {
			tr.emit(ctx, sql, args, start, scanErr)
		},
	}
}

// tracing holds the tracer and slow threshold shared by pool and tx queriers
type tracing struct {
	tracer pg.QueryTracer
	slowUS int64
}

func (t tracing) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      t.slowUS > 0 && elapsedUS >= t.slowUS,
	})
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
