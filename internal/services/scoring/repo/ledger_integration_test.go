//go:build integration_pg

package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"fraudscore/internal/core/model"
	"fraudscore/internal/modkit/repokit"
	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/store"
	"fraudscore/internal/platform/store/migrate"
	kit "fraudscore/internal/platform/testkit"
	"fraudscore/internal/services/scoring/domain"

	"github.com/rs/zerolog"
)

func openLedgerDB(t *testing.T, ctx context.Context) repokit.TxRunner {
	t.Helper()
	dsn := kit.StartPostgres(t)
	if err := migrate.Up(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st, err := store.Open(ctx, store.Config{
		AppName: "fraudscore-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4},
	}, store.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st.PG
}

func countRows(t *testing.T, ctx context.Context, db repokit.Queryer) int64 {
	t.Helper()
	n, err := store.Scalar[int64](ctx, db, `SELECT count(*) FROM transactions`)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestLedger_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	db := openLedgerDB(t, ctx)
	l := NewLedger(repokit.WithBeginHooks(db, repokit.LocalStatementTimeout(5*time.Second)), NewPG())

	t.Run("model1 round trip keeps the wall clock", func(t *testing.T) {
		rcpt, err := l.Append(ctx, recordA())
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if rcpt.ID <= 0 || rcpt.CreatedAt.IsZero() {
			t.Fatalf("receipt = %+v", rcpt)
		}
		st, err := l.Get(ctx, rcpt.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if st.Model != model.VariantA || st.Fraud != model.Fraud || st.B != nil || st.A == nil {
			t.Fatalf("stored = %+v", st)
		}
		if !st.A.Datetime.Equal(wall) || st.A.CustomerID != 596 || st.A.TerminalID != "3156" {
			t.Fatalf("group A = %+v", st.A)
		}
		if !st.CreatedAt.Equal(rcpt.CreatedAt) {
			t.Fatalf("created_at %v != receipt %v", st.CreatedAt, rcpt.CreatedAt)
		}
	})

	t.Run("model2 ids keep growing", func(t *testing.T) {
		first, err := l.Append(ctx, recordB())
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		second, err := l.Append(ctx, recordB())
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if second.ID <= first.ID {
			t.Fatalf("ids not increasing: %d then %d", first.ID, second.ID)
		}
		st, err := l.Get(ctx, second.ID)
		if err != nil || st.B == nil || st.B.Type != "TRANSFER" || st.A != nil {
			t.Fatalf("stored = %+v, %v", st, err)
		}
	})

	t.Run("failure after insert rolls back", func(t *testing.T) {
		before := countRows(t, ctx, db)
		boom := errors.New("boom after insert")
		failing := repokit.BindFunc[Repo](func(q repokit.Queryer) Repo {
			return afterInsert{Repo: NewPG().Bind(q), err: boom}
		})
		rcpt, err := NewLedger(db, failing).Append(ctx, recordA())
		if !errors.Is(err, boom) || rcpt != (domain.Receipt{}) {
			t.Fatalf("Append = %+v, %v", rcpt, err)
		}
		if after := countRows(t, ctx, db); after != before {
			t.Fatalf("rows %d -> %d, insert was not rolled back", before, after)
		}
	})

	t.Run("constraint rejects a row with both groups", func(t *testing.T) {
		rec := recordA()
		rec.B = &domain.GroupB{Type: "TRANSFER"}
		err := db.Tx(ctx, func(q repokit.Queryer) error {
			_, err := NewPG().Bind(q).Insert(ctx, rec)
			return err
		})
		if !perr.IsCheckViolation(err) {
			t.Fatalf("err = %v, want check violation", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, err := l.Get(ctx, 1<<40); perr.CodeOf(err) != perr.ErrorCodeNotFound {
			t.Fatalf("err = %v", err)
		}
	})
}

type afterInsert struct {
	Repo
	err error
}

func (a afterInsert) Insert(ctx context.Context, rec domain.Record) (domain.Receipt, error) {
	if _, err := a.Repo.Insert(ctx, rec); err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{}, a.err
}
