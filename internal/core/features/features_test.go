package features

import (
	"testing"
	"time"

	perr "fraudscore/internal/platform/errors"
)

func TestAssembleA_DerivesTemporalFeatures(t *testing.T) {
	a, err := AssembleA(TxA{
		Amount:      57.16,
		TimeSeconds: 31,
		TimeDays:    0,
		CustomerID:  596,
		TerminalID:  "3156",
		Datetime:    "2024-03-04T13:20:00",
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if a.Hour != 13 || a.Weekday != 0 {
		t.Fatalf("hour=%d weekday=%d, want 13 and 0 (Monday)", a.Hour, a.Weekday)
	}
	if err := a.Row.Conforms(SchemaA); err != nil {
		t.Fatalf("row should conform: %v", err)
	}
	if c, _ := a.Row.Get("TERMINAL_ID"); c.Kind != Categorical || c.Cat != "3156" {
		t.Fatalf("TERMINAL_ID cell = %+v", c)
	}
	if c, _ := a.Row.Get("CUSTOMER_ID"); c.Num != 596 {
		t.Fatalf("CUSTOMER_ID cell = %+v", c)
	}
	if c, _ := a.Row.Get("tx_weekday"); c.Num != 0 {
		t.Fatalf("tx_weekday cell = %+v", c)
	}
}

func TestAssembleA_InvalidTimestamp(t *testing.T) {
	_, err := AssembleA(TxA{Datetime: "not-a-date"})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	e, _ := perr.As(err)
	if e.Field() != "TX_DATETIME" {
		t.Fatalf("field = %q", e.Field())
	}
}

func TestParseTimestamp_Forms(t *testing.T) {
	cases := []struct {
		in          string
		hour, wday  int
		wallMinutes int
	}{
		{"2024-03-04", 0, 0, 0},
		{"2024-03-04T13", 13, 0, 0},
		{"2024-03-04T13:20", 13, 0, 20},
		{"2024-03-04 13:20:00", 13, 0, 20},
		{"2024-03-04T13:20:00.123456", 13, 0, 20},
		{"2024-03-04T23:59:59Z", 23, 0, 59},
		{"2024-03-04T23:30:00+05:30", 23, 0, 30},
		{"2024-03-04T01:00:00-0800", 1, 0, 0},
		{"2024-03-10T08:00:00", 8, 6, 0}, // Sunday
		{"2024-03-09T08:00:00", 8, 5, 0}, // Saturday
	}
	for _, c := range cases {
		ts, err := ParseTimestamp(c.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", c.in, err)
		}
		h, w := Temporal(ts)
		if h != c.hour || w != c.wday {
			t.Fatalf("%q: hour=%d weekday=%d, want %d %d", c.in, h, w, c.hour, c.wday)
		}
		if ts.Minute() != c.wallMinutes {
			t.Fatalf("%q: minute=%d want %d", c.in, ts.Minute(), c.wallMinutes)
		}
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, in := range []string{"", "2024-13-01", "2024-02-30T00:00:00", "04/03/2024", "2024-03-04T25:00", "2024-03-04X13:00", "2024-03-04T1:20", "2024-03-04 1:20:00", "2024-03-04T"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestTemporal_Ranges(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*14; i++ {
		h, w := Temporal(start.Add(time.Duration(i) * time.Hour))
		if h < 0 || h > 23 || w < 0 || w > 6 {
			t.Fatalf("out of range hour=%d weekday=%d", h, w)
		}
	}
}

func TestWall_KeepsClockReading(t *testing.T) {
	ts, _ := ParseTimestamp("2024-03-04T23:30:00+05:30")
	w := Wall(ts)
	if w.Location() != time.UTC || w.Hour() != 23 || w.Minute() != 30 || w.Day() != 4 {
		t.Fatalf("wall = %v", w)
	}
}

func TestAssembleB_MapsType(t *testing.T) {
	row := AssembleB(TxB{Type: "TRANSFER", Amount: 181, OldBalanceOrg: 181})
	if err := row.Conforms(SchemaB); err != nil {
		t.Fatalf("row should conform: %v", err)
	}
	if c, ok := row.Get("type"); !ok || c.Cat != "TRANSFER" {
		t.Fatalf("type cell = %+v", c)
	}
	if c, _ := row.Get("newbalanceDest"); c.Num != 0 {
		t.Fatalf("newbalanceDest = %+v", c)
	}
}

func TestConforms_Mismatches(t *testing.T) {
	row := AssembleB(TxB{Type: "CASH_OUT"})
	if err := row.Conforms(SchemaA); !perr.IsCode(err, perr.ErrorCodeScoring) {
		t.Fatalf("B row against A schema should be a scoring fault, got %v", err)
	}

	swapped := AssembleB(TxB{Type: "CASH_OUT"})
	swapped.Names[1], swapped.Names[2] = swapped.Names[2], swapped.Names[1]
	if err := swapped.Conforms(SchemaB); err == nil {
		t.Fatalf("reordered columns should not conform")
	}

	kinds := AssembleB(TxB{Type: "CASH_OUT"})
	kinds.Cells[0] = Num(1)
	if err := kinds.Conforms(SchemaB); err == nil {
		t.Fatalf("wrong kind should not conform")
	}

	ragged := Row{Names: []string{"a"}, Cells: nil}
	if err := ragged.Conforms(SchemaB); err == nil {
		t.Fatalf("ragged row should not conform")
	}
}

func TestSchemaHelpers(t *testing.T) {
	if SchemaA.Index("TERMINAL_ID") != 4 || SchemaA.Index("nope") != -1 {
		t.Fatalf("Index mismatch")
	}
	if len(SchemaB.Names()) != 6 || SchemaB.Names()[0] != "type" {
		t.Fatalf("Names mismatch: %v", SchemaB.Names())
	}
	if Numeric.String() != "numeric" || Kind(0).String() != "invalid" {
		t.Fatalf("Kind.String mismatch")
	}
}
