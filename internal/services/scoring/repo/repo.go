// Package repo is the transactions ledger: postgres queries plus the transactional append around them
package repo

import (
	"context"
	"time"

	"fraudscore/internal/core/model"
	"fraudscore/internal/modkit/repokit"
	"fraudscore/internal/platform/store"
	"fraudscore/internal/services/scoring/domain"
)

// Repo is the statement level contract; it runs on whatever Queryer it was bound to
type Repo interface {
	Insert(ctx context.Context, rec domain.Record) (domain.Receipt, error)
	Get(ctx context.Context, id int64) (domain.Stored, error)
}

type (
	// PG implements the Repo binder over postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Queryer, pool or tx, to the queries
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const insertSQL = `
INSERT INTO transactions (
	model_type,
	tx_amount, tx_time_seconds, tx_time_days, customer_id, terminal_id, tx_datetime,
	type, amount, oldbalance_org, newbalance_orig, oldbalance_dest, newbalance_dest,
	fraud
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, created_at`

func (r *queries) Insert(ctx context.Context, rec domain.Record) (domain.Receipt, error) {
	var out domain.Receipt
	err := r.q.QueryRow(ctx, insertSQL, insertArgs(rec)...).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return domain.Receipt{}, err
	}
	return out, nil
}

// insertArgs lays rec out in insertSQL order; the unused group stays NULL
func insertArgs(rec domain.Record) []any {
	args := make([]any, 14)
	args[0] = string(rec.Model)
	if a := rec.A; a != nil {
		args[1], args[2], args[3] = a.Amount, a.TimeSeconds, a.TimeDays
		args[4], args[5], args[6] = a.CustomerID, a.TerminalID, a.Datetime
	}
	if b := rec.B; b != nil {
		args[7], args[8], args[9] = b.Type, b.Amount, b.OldBalanceOrg
		args[10], args[11], args[12] = b.NewBalanceOrig, b.OldBalanceDest, b.NewBalanceDest
	}
	args[13] = int16(rec.Fraud)
	return args
}

const getSQL = `
SELECT id, model_type,
	tx_amount, tx_time_seconds, tx_time_days, customer_id, terminal_id, tx_datetime,
	type, amount, oldbalance_org, newbalance_orig, oldbalance_dest, newbalance_dest,
	fraud, created_at
FROM transactions
WHERE id = $1`

func (r *queries) Get(ctx context.Context, id int64) (domain.Stored, error) {
	return store.One(ctx, r.q, scanStored, getSQL, id)
}

func scanStored(row store.Row) (domain.Stored, error) {
	var (
		out       domain.Stored
		modelType string
		fraud     int16

		txAmount, txSeconds, txDays *float64
		customerID                  *int64
		terminalID                  *string
		txDatetime                  *time.Time

		typ                                       *string
		amount, oldOrg, newOrig, oldDest, newDest *float64
	)
	if err := row.Scan(
		&out.ID, &modelType,
		&txAmount, &txSeconds, &txDays, &customerID, &terminalID, &txDatetime,
		&typ, &amount, &oldOrg, &newOrig, &oldDest, &newDest,
		&fraud, &out.CreatedAt,
	); err != nil {
		return domain.Stored{}, err
	}

	out.Model = model.Variant(modelType)
	out.Fraud = model.Label(fraud)
	if txAmount != nil {
		out.A = &domain.GroupA{
			Amount:      *txAmount,
			TimeSeconds: deref(txSeconds),
			TimeDays:    deref(txDays),
			CustomerID:  deref(customerID),
			TerminalID:  deref(terminalID),
			Datetime:    deref(txDatetime),
		}
	}
	if typ != nil {
		out.B = &domain.GroupB{
			Type:           *typ,
			Amount:         deref(amount),
			OldBalanceOrg:  deref(oldOrg),
			NewBalanceOrig: deref(newOrig),
			OldBalanceDest: deref(oldDest),
			NewBalanceDest: deref(newDest),
		}
	}
	return out, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
