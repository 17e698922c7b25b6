package repo

import (
	"context"

	"fraudscore/internal/modkit/repokit"
	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/services/scoring/domain"
)

// Ledger owns the transaction boundary of a scored row
type Ledger struct {
	db     repokit.TxRunner
	binder repokit.Binder[Repo]
}

// NewLedger builds the ledger over db; db may carry begin hooks such as a statement timeout
func NewLedger(db repokit.TxRunner, binder repokit.Binder[Repo]) *Ledger {
	if db == nil {
		panic("scoring.Ledger requires a non nil TxRunner")
	}
	if binder == nil {
		panic("scoring.Ledger requires a non nil Repo binder")
	}
	return &Ledger{db: db, binder: binder}
}

// Append inserts rec in its own transaction and returns the receipt after commit
// Every failure, commit included, comes back as a persistence fault with no receipt
func (l *Ledger) Append(ctx context.Context, rec domain.Record) (domain.Receipt, error) {
	if err := rec.Check(); err != nil {
		return domain.Receipt{}, err
	}
	var out domain.Receipt
	err := repokit.WithTx(ctx, l.db, func(q repokit.Queryer) error {
		rcpt, err := l.binder.Bind(q).Insert(ctx, rec)
		if err != nil {
			return err
		}
		out = rcpt
		return nil
	})
	if err != nil {
		return domain.Receipt{}, perr.FromPostgres(err, "persist scored transaction")
	}
	return out, nil
}

// Get reads one row back by id
func (l *Ledger) Get(ctx context.Context, id int64) (domain.Stored, error) {
	st, err := l.binder.Bind(l.db).Get(ctx, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Stored{}, perr.NotFoundf("transaction %d not found", id)
		}
		return domain.Stored{}, perr.FromPostgresf(err, "read transaction %d", id)
	}
	return st, nil
}

var _ domain.LedgerPort = (*Ledger)(nil)
