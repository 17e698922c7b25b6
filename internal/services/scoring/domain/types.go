// Package domain holds the scoring contracts: request and response DTOs, the ledger record and the ports
package domain

import (
	"time"

	"fraudscore/internal/core/features"
	"fraudscore/internal/core/model"
	perr "fraudscore/internal/platform/errors"
)

// Stage is where a scoring request is in its lifecycle
type Stage string

const (
	StageReceived          Stage = "received"
	StageValidated         Stage = "validated"
	StageFeaturesAssembled Stage = "features_assembled"
	StageScored            Stage = "scored"
	StagePersisted         Stage = "persisted"
	StageResponded         Stage = "responded"
	StageRejected          Stage = "rejected"
)

// GroupA is the model1 column group of a ledger row
type GroupA struct {
	Amount      float64
	TimeSeconds float64
	TimeDays    float64
	CustomerID  int64
	TerminalID  string
	// Datetime is the request's wall clock, stored without zone
	Datetime time.Time
}

// GroupB is the model2 column group of a ledger row
type GroupB = features.TxB

// Record is one scored transaction on its way to the ledger
// Exactly one of A and B is set, matching Model
type Record struct {
	Model model.Variant
	A     *GroupA
	B     *GroupB
	Fraud model.Label
}

// Check rejects records the ledger's one-group constraint would refuse
func (r Record) Check() error {
	switch {
	case r.Model == model.VariantA && r.A != nil && r.B == nil:
	case r.Model == model.VariantB && r.B != nil && r.A == nil:
	default:
		return perr.Internalf("ledger record for %q must carry exactly its own column group", r.Model)
	}
	if r.Fraud != model.Legit && r.Fraud != model.Fraud {
		return perr.Internalf("ledger record label %d is not binary", r.Fraud)
	}
	return nil
}

// Receipt is what the ledger hands back once the row is committed
type Receipt struct {
	ID        int64
	CreatedAt time.Time
}

// Stored is a ledger row read back
type Stored struct {
	Record
	Receipt
}
