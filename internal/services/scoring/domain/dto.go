package domain

import (
	"time"

	"fraudscore/internal/core/features"
	"fraudscore/internal/core/model"
	perr "fraudscore/internal/platform/errors"
)

// RequestA is the model1 request body
// Fields are pointers so a missing field and a zero value can be told apart
type RequestA struct {
	TxAmount      *float64 `json:"TX_AMOUNT" validate:"required" example:"57.16"`
	TxTimeSeconds *float64 `json:"TX_TIME_SECONDS" validate:"required" example:"31"`
	TxTimeDays    *float64 `json:"TX_TIME_DAYS" validate:"required" example:"0"`
	CustomerID    *int64   `json:"CUSTOMER_ID" validate:"required" example:"596"`
	TerminalID    *string  `json:"TERMINAL_ID" validate:"required" example:"3156"`
	TxDatetime    *string  `json:"TX_DATETIME" validate:"required,notblank" example:"2018-04-01T00:00:31"`
}

// Tx checks presence and returns the core transaction
func (r RequestA) Tx() (features.TxA, error) {
	switch {
	case r.TxAmount == nil:
		return features.TxA{}, missing("TX_AMOUNT")
	case r.TxTimeSeconds == nil:
		return features.TxA{}, missing("TX_TIME_SECONDS")
	case r.TxTimeDays == nil:
		return features.TxA{}, missing("TX_TIME_DAYS")
	case r.CustomerID == nil:
		return features.TxA{}, missing("CUSTOMER_ID")
	case r.TerminalID == nil:
		return features.TxA{}, missing("TERMINAL_ID")
	case r.TxDatetime == nil:
		return features.TxA{}, missing("TX_DATETIME")
	}
	return features.TxA{
		Amount:      *r.TxAmount,
		TimeSeconds: *r.TxTimeSeconds,
		TimeDays:    *r.TxTimeDays,
		CustomerID:  *r.CustomerID,
		TerminalID:  *r.TerminalID,
		Datetime:    *r.TxDatetime,
	}, nil
}

// RequestB is the model2 request body
type RequestB struct {
	TransactionType *string  `json:"transaction_type" validate:"required,notblank" example:"TRANSFER"`
	Amount          *float64 `json:"amount" validate:"required" example:"181"`
	OldBalanceOrg   *float64 `json:"oldbalanceOrg" validate:"required" example:"181"`
	NewBalanceOrig  *float64 `json:"newbalanceOrig" validate:"required" example:"0"`
	OldBalanceDest  *float64 `json:"oldbalanceDest" validate:"required" example:"0"`
	NewBalanceDest  *float64 `json:"newbalanceDest" validate:"required" example:"0"`
}

// Tx checks presence and returns the core transaction
func (r RequestB) Tx() (features.TxB, error) {
	switch {
	case r.TransactionType == nil:
		return features.TxB{}, missing("transaction_type")
	case r.Amount == nil:
		return features.TxB{}, missing("amount")
	case r.OldBalanceOrg == nil:
		return features.TxB{}, missing("oldbalanceOrg")
	case r.NewBalanceOrig == nil:
		return features.TxB{}, missing("newbalanceOrig")
	case r.OldBalanceDest == nil:
		return features.TxB{}, missing("oldbalanceDest")
	case r.NewBalanceDest == nil:
		return features.TxB{}, missing("newbalanceDest")
	}
	return features.TxB{
		Type:           *r.TransactionType,
		Amount:         *r.Amount,
		OldBalanceOrg:  *r.OldBalanceOrg,
		NewBalanceOrig: *r.NewBalanceOrig,
		OldBalanceDest: *r.OldBalanceDest,
		NewBalanceDest: *r.NewBalanceDest,
	}, nil
}

func missing(field string) error { return perr.Validationf(field, "%s is required", field) }

// Response is returned only after the scored row is committed
type Response struct {
	Model     model.Variant `json:"model" example:"model1"`
	Fraud     model.Label   `json:"fraud" example:"0"`
	ID        int64         `json:"id" example:"1042"`
	CreatedAt time.Time     `json:"created_at"`
}
