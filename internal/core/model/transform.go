package model

import (
	"math"
	"strconv"
	"strings"

	"fraudscore/internal/core/features"
	perr "fraudscore/internal/platform/errors"

	"golang.org/x/text/unicode/norm"
)

// transformer is a compiled column transformer bound to one feature schema
type transformer struct {
	schema features.Schema
	blocks []block
	width  int
}

type block interface {
	name() string
	width() int
	apply(cells []features.Cell, out []float64) error
}

// compileTransformer checks spec against schema and precomputes column indices
// Every mismatch is a startup fault
func compileTransformer(spec *TransformerSpec, schema features.Schema) (*transformer, error) {
	if spec == nil {
		return nil, perr.Startupf("model: %s preprocessor missing", schema.Name)
	}
	if spec.Kind != KindColumnTransformer {
		return nil, perr.Startupf("model: %s preprocessor kind %q, want %q", schema.Name, spec.Kind, KindColumnTransformer)
	}
	if err := sameColumns(spec.Input, schema); err != nil {
		return nil, err
	}

	t := &transformer{schema: schema}
	used := make([]bool, len(schema.Fields))
	for _, bs := range spec.Transformers {
		idx, err := resolve(schema, bs.Name, bs.Columns)
		if err != nil {
			return nil, err
		}
		for _, i := range idx {
			used[i] = true
		}

		var b block
		switch bs.Kind {
		case BlockStandardScaler:
			b, err = newScaler(schema, bs, idx)
		case BlockOneHot:
			b, err = newOneHot(schema, bs, idx)
		case BlockPassthrough:
			b, err = newPassthrough(schema, bs.Name, idx)
		default:
			err = perr.Startupf("model: %s block %q has unknown kind %q", schema.Name, bs.Name, bs.Kind)
		}
		if err != nil {
			return nil, err
		}
		t.blocks = append(t.blocks, b)
		t.width += b.width()
	}

	switch spec.Remainder {
	case "", "drop":
	case "passthrough":
		var rest []int
		for i, u := range used {
			if !u {
				rest = append(rest, i)
			}
		}
		if len(rest) > 0 {
			b, err := newPassthrough(schema, "remainder", rest)
			if err != nil {
				return nil, err
			}
			t.blocks = append(t.blocks, b)
			t.width += b.width()
		}
	default:
		return nil, perr.Startupf("model: %s remainder %q not supported", schema.Name, spec.Remainder)
	}

	if t.width == 0 {
		return nil, perr.Startupf("model: %s preprocessor produces no features", schema.Name)
	}
	return t, nil
}

// transform runs every block over row and concatenates their outputs
func (t *transformer) transform(row features.Row) ([]float64, error) {
	if err := row.Conforms(t.schema); err != nil {
		return nil, err
	}
	for i, c := range row.Cells {
		if c.Kind == features.Numeric && (math.IsNaN(c.Num) || math.IsInf(c.Num, 0)) {
			return nil, perr.Scoringf("model: %s column %q is not finite", t.schema.Name, row.Names[i])
		}
	}

	out := make([]float64, t.width)
	off := 0
	for _, b := range t.blocks {
		w := b.width()
		if err := b.apply(row.Cells, out[off:off+w]); err != nil {
			return nil, err
		}
		off += w
	}
	return out, nil
}

func sameColumns(input []string, schema features.Schema) error {
	want := schema.Names()
	if len(input) != len(want) {
		return perr.Startupf("model: %s artifact expects %d input columns, schema has %d", schema.Name, len(input), len(want))
	}
	for i := range want {
		if input[i] != want[i] {
			return perr.Startupf("model: %s artifact input column %d is %q, schema has %q", schema.Name, i, input[i], want[i])
		}
	}
	return nil
}

func resolve(schema features.Schema, blockName string, cols []string) ([]int, error) {
	if len(cols) == 0 {
		return nil, perr.Startupf("model: %s block %q selects no columns", schema.Name, blockName)
	}
	idx := make([]int, len(cols))
	for i, c := range cols {
		j := schema.Index(c)
		if j < 0 {
			return nil, perr.Startupf("model: %s block %q references unknown column %q", schema.Name, blockName, c)
		}
		idx[i] = j
	}
	return idx, nil
}

func requireNumeric(schema features.Schema, blockName string, idx []int) error {
	for _, i := range idx {
		if f := schema.Fields[i]; f.Kind != features.Numeric {
			return perr.Startupf("model: %s block %q needs numeric input, %q is %s", schema.Name, blockName, f.Name, f.Kind)
		}
	}
	return nil
}

// standard scaler

type scaler struct {
	label string
	idx   []int
	mean  []float64
	scale []float64
}

func newScaler(schema features.Schema, bs BlockSpec, idx []int) (block, error) {
	if err := requireNumeric(schema, bs.Name, idx); err != nil {
		return nil, err
	}
	if len(bs.Mean) != len(idx) || len(bs.Scale) != len(idx) {
		return nil, perr.Startupf("model: %s scaler %q has %d columns, %d means, %d scales",
			schema.Name, bs.Name, len(idx), len(bs.Mean), len(bs.Scale))
	}
	s := &scaler{label: bs.Name, idx: idx, mean: bs.Mean, scale: make([]float64, len(bs.Scale))}
	for i, v := range bs.Scale {
		// a constant column is fitted with scale 0 and left unscaled
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

func (s *scaler) name() string { return s.label }
func (s *scaler) width() int   { return len(s.idx) }

func (s *scaler) apply(cells []features.Cell, out []float64) error {
	for i, j := range s.idx {
		out[i] = (cells[j].Num - s.mean[i]) / s.scale[i]
	}
	return nil
}

// one-hot encoder

type oneHot struct {
	label   string
	schema  string
	idx     []int
	lookup  []map[string]int
	offsets []int
	total   int
	strict  bool
}

func newOneHot(schema features.Schema, bs BlockSpec, idx []int) (block, error) {
	if len(bs.Categories) != len(idx) {
		return nil, perr.Startupf("model: %s one_hot %q has %d columns but %d category lists",
			schema.Name, bs.Name, len(idx), len(bs.Categories))
	}
	o := &oneHot{label: bs.Name, schema: schema.Name, idx: idx}
	switch bs.HandleUnknown {
	case "", "error":
		o.strict = true
	case "ignore":
	default:
		return nil, perr.Startupf("model: %s one_hot %q handle_unknown %q not supported", schema.Name, bs.Name, bs.HandleUnknown)
	}
	for i, cats := range bs.Categories {
		if len(cats) == 0 {
			return nil, perr.Startupf("model: %s one_hot %q column %d has no categories", schema.Name, bs.Name, i)
		}
		m := make(map[string]int, len(cats))
		for k, c := range cats {
			key := categoryKey(c)
			if _, dup := m[key]; dup {
				return nil, perr.Startupf("model: %s one_hot %q duplicate category %q", schema.Name, bs.Name, c)
			}
			m[key] = k
		}
		o.lookup = append(o.lookup, m)
		o.offsets = append(o.offsets, o.total)
		o.total += len(cats)
	}
	return o, nil
}

func (o *oneHot) name() string { return o.label }
func (o *oneHot) width() int   { return o.total }

func (o *oneHot) apply(cells []features.Cell, out []float64) error {
	for i, j := range o.idx {
		key := cellKey(cells[j])
		k, ok := o.lookup[i][key]
		if !ok {
			if o.strict {
				return perr.Scoringf("model: %s one_hot %q unknown category %q", o.schema, o.label, key)
			}
			// unknown categories encode as all zeros
			continue
		}
		out[o.offsets[i]+k] = 1
	}
	return nil
}

// categoryKey normalises labels so visually identical strings match
func categoryKey(s string) string { return norm.NFC.String(strings.TrimSpace(s)) }

func cellKey(c features.Cell) string {
	if c.Kind == features.Numeric {
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return categoryKey(c.Cat)
}

// passthrough

type passthrough struct {
	label string
	idx   []int
}

func newPassthrough(schema features.Schema, blockName string, idx []int) (block, error) {
	if err := requireNumeric(schema, blockName, idx); err != nil {
		return nil, err
	}
	return &passthrough{label: blockName, idx: idx}, nil
}

func (p *passthrough) name() string { return p.label }
func (p *passthrough) width() int   { return len(p.idx) }

func (p *passthrough) apply(cells []features.Cell, out []float64) error {
	for i, j := range p.idx {
		out[i] = cells[j].Num
	}
	return nil
}
