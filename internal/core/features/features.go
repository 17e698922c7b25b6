// Package features turns validated transactions into the named, ordered rows the models consume
// Variant A (model1) derives two temporal features from TX_DATETIME
//
//	tx_hour    0..23 from the wall clock as written, no timezone conversion
//	tx_weekday 0..6 with Monday = 0
//
// Variant B (model2) is a straight field mapping, transaction_type lands in column "type"
package features

import (
	"strings"

	perr "fraudscore/internal/platform/errors"
)

// Kind is the cell type a model expects in a column
type Kind uint8

const (
	// Numeric cells hold a float64
	Numeric Kind = iota + 1
	// Categorical cells hold a string label
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "invalid"
	}
}

// Field is one named column
type Field struct {
	Name string
	Kind Kind
}

// Schema is the fixed column layout a model was trained on
type Schema struct {
	Name   string
	Fields []Field
}

// Index returns the position of name, or -1
func (s Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Names lists the column names in order
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// SchemaA is the model1 feature layout
var SchemaA = Schema{
	Name: "model1",
	Fields: []Field{
		{"TX_AMOUNT", Numeric},
		{"TX_TIME_SECONDS", Numeric},
		{"TX_TIME_DAYS", Numeric},
		{"CUSTOMER_ID", Numeric},
		{"TERMINAL_ID", Categorical},
		{"tx_hour", Numeric},
		{"tx_weekday", Numeric},
	},
}

// SchemaB is the model2 feature layout
var SchemaB = Schema{
	Name: "model2",
	Fields: []Field{
		{"type", Categorical},
		{"amount", Numeric},
		{"oldbalanceOrg", Numeric},
		{"newbalanceOrig", Numeric},
		{"oldbalanceDest", Numeric},
		{"newbalanceDest", Numeric},
	},
}

// Cell is a single value; Kind selects which of Num or Cat is meaningful
type Cell struct {
	Kind Kind
	Num  float64
	Cat  string
}

// Num builds a numeric cell
func Num(v float64) Cell { return Cell{Kind: Numeric, Num: v} }

// Cat builds a categorical cell
func Cat(v string) Cell { return Cell{Kind: Categorical, Cat: v} }

// Row is one feature row; Names and Cells are parallel
type Row struct {
	Names []string
	Cells []Cell
}

// Len returns the number of cells
func (r Row) Len() int { return len(r.Cells) }

// Get returns the cell for name
func (r Row) Get(name string) (Cell, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Cells[i], true
		}
	}
	return Cell{}, false
}

// Conforms checks names, order and kinds against s
// A mismatch is a scoring fault: the row was built for a different model
func (r Row) Conforms(s Schema) error {
	if len(r.Names) != len(r.Cells) {
		return perr.Scoringf("features: row has %d names but %d cells", len(r.Names), len(r.Cells))
	}
	if len(r.Cells) != len(s.Fields) {
		return perr.Scoringf("features: %s expects %d columns, row has %d (%s)",
			s.Name, len(s.Fields), len(r.Cells), strings.Join(r.Names, ","))
	}
	for i, f := range s.Fields {
		if r.Names[i] != f.Name {
			return perr.Scoringf("features: %s column %d is %q, row has %q", s.Name, i, f.Name, r.Names[i])
		}
		if r.Cells[i].Kind != f.Kind {
			return perr.Scoringf("features: %s column %q wants %s, row has %s", s.Name, f.Name, f.Kind, r.Cells[i].Kind)
		}
	}
	return nil
}

func newRow(s Schema, cells ...Cell) Row {
	return Row{Names: s.Names(), Cells: cells}
}
