package features

import (
	"time"

	perr "fraudscore/internal/platform/errors"
)

// TxA is a validated model1 transaction
type TxA struct {
	Amount      float64
	TimeSeconds float64
	TimeDays    float64
	CustomerID  int64
	TerminalID  string
	Datetime    string
}

// TxB is a validated model2 transaction
type TxB struct {
	Type           string
	Amount         float64
	OldBalanceOrg  float64
	NewBalanceOrig float64
	OldBalanceDest float64
	NewBalanceDest float64
}

// Assembled is a model1 row plus the parsed timestamp the ledger stores
type Assembled struct {
	Row     Row
	At      time.Time
	Hour    int
	Weekday int
}

// AssembleA parses TX_DATETIME and builds the model1 row
// A bad timestamp is a validation error and no row is built
func AssembleA(tx TxA) (Assembled, error) {
	at, err := ParseTimestamp(tx.Datetime)
	if err != nil {
		return Assembled{}, err
	}
	hour, weekday := Temporal(at)
	row := newRow(SchemaA,
		Num(tx.Amount),
		Num(tx.TimeSeconds),
		Num(tx.TimeDays),
		Num(float64(tx.CustomerID)),
		Cat(tx.TerminalID),
		Num(float64(hour)),
		Num(float64(weekday)),
	)
	return Assembled{Row: row, At: at, Hour: hour, Weekday: weekday}, nil
}

// AssembleB builds the model2 row
func AssembleB(tx TxB) Row {
	return newRow(SchemaB,
		Cat(tx.Type),
		Num(tx.Amount),
		Num(tx.OldBalanceOrg),
		Num(tx.NewBalanceOrig),
		Num(tx.OldBalanceDest),
		Num(tx.NewBalanceDest),
	)
}

// layouts accepted after a space separator has been folded into "T"
// time.Parse takes a fractional second after the seconds field even when the layout omits it
var layouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 date or date-time text
// Forms: date only, hour, minute or second precision, optional fraction, optional Z or offset,
// "T" or a single space between date and time
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	// the hour verb accepts a single digit; ISO-8601 does not
	if len(s) > 10 && (len(s) < 13 || !isDigit(s[11]) || !isDigit(s[12])) {
		return time.Time{}, perr.Validationf("TX_DATETIME", "Invalid TX_DATETIME format: %q", s)
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, perr.Validationf("TX_DATETIME", "Invalid TX_DATETIME format: %q", s)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Temporal returns the hour and the Monday-based weekday of t's own wall clock
func Temporal(t time.Time) (hour, weekday int) {
	return t.Hour(), (int(t.Weekday()) + 6) % 7
}

// Wall drops the offset and keeps the clock reading, as a UTC time
// The ledger column is a timestamp without time zone
func Wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
