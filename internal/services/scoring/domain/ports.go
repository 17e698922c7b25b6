package domain

import (
	"context"

	"fraudscore/internal/core/features"
	"fraudscore/internal/core/model"
)

// ScorerPort is the inference engine; *model.Registry satisfies it
type ScorerPort interface {
	ScoreA(row features.Row) (model.Label, error)
	ScoreB(row features.Row) (model.Label, error)
}

// LedgerPort appends scored transactions durably
// A nil error means the row is committed
type LedgerPort interface {
	Append(ctx context.Context, rec Record) (Receipt, error)
}

// ServicePort is the scoring workflow the transport calls
type ServicePort interface {
	ScoreA(ctx context.Context, in RequestA) (Response, error)
	ScoreB(ctx context.Context, in RequestB) (Response, error)
}
