// Package model holds the two fraud classifiers behind a read-only registry
// Artifacts are loaded once at startup from a YAML manifest and never change afterwards,
// so a *Registry can be shared by every request without locking
//
// model1 is a standalone preprocessor followed by a classifier
// model2 is a single pipeline artifact that carries its own preprocessor
package model

import (
	"fraudscore/internal/core/features"
	perr "fraudscore/internal/platform/errors"
)

// Label is the binary outcome
type Label int

const (
	// Legit is a transaction the model does not flag
	Legit Label = 0
	// Fraud is a flagged transaction
	Fraud Label = 1
)

// Variant names a model family
type Variant string

const (
	// VariantA is model1, the card-transaction model
	VariantA Variant = "model1"
	// VariantB is model2, the mobile-money model
	VariantB Variant = "model2"
)

// Valid reports whether v is a known variant
func (v Variant) Valid() bool { return v == VariantA || v == VariantB }

// Schema returns the feature layout v consumes
func (v Variant) Schema() features.Schema {
	if v == VariantB {
		return features.SchemaB
	}
	return features.SchemaA
}

// Specs is the decoded artifact set before validation
type Specs struct {
	PreprocessorA *TransformerSpec
	ClassifierA   *ClassifierSpec
	PipelineB     *PipelineSpec
}

type scorer struct {
	pre *transformer
	clf classifier
}

func (s scorer) score(row features.Row) (Label, error) {
	x, err := s.pre.transform(row)
	if err != nil {
		return 0, err
	}
	return s.clf.predict(x)
}

// Registry is the immutable set of loaded models
type Registry struct {
	a, b scorer
	info Info
}

// Compile validates specs against the fixed feature schemas
// Any mismatch is a startup fault
func Compile(specs Specs) (*Registry, error) {
	a, err := compileVariant(VariantA, specs.PreprocessorA, specs.ClassifierA)
	if err != nil {
		return nil, err
	}
	if specs.PipelineB == nil {
		return nil, perr.Startupf("model: %s pipeline missing", VariantB)
	}
	if specs.PipelineB.Kind != KindPipeline {
		return nil, perr.Startupf("model: %s artifact kind %q, want %q", VariantB, specs.PipelineB.Kind, KindPipeline)
	}
	b, err := compileVariant(VariantB, specs.PipelineB.Preprocessor, specs.PipelineB.Classifier)
	if err != nil {
		return nil, err
	}

	r := &Registry{a: a, b: b}
	r.info.Variants = []VariantInfo{describe(VariantA, a), describe(VariantB, b)}
	return r, nil
}

func compileVariant(v Variant, pre *TransformerSpec, clf *ClassifierSpec) (scorer, error) {
	t, err := compileTransformer(pre, v.Schema())
	if err != nil {
		return scorer{}, err
	}
	c, err := compileClassifier(clf, v)
	if err != nil {
		return scorer{}, err
	}
	if c.inputs() != t.width {
		return scorer{}, perr.Startupf("model: %s preprocessor emits %d features, classifier expects %d",
			v, t.width, c.inputs())
	}
	return scorer{pre: t, clf: c}, nil
}

// ScoreA runs model1 over a row built by features.AssembleA
func (r *Registry) ScoreA(row features.Row) (Label, error) { return r.a.score(row) }

// ScoreB runs model2 over a row built by features.AssembleB
func (r *Registry) ScoreB(row features.Row) (Label, error) { return r.b.score(row) }

// Score dispatches on variant
func (r *Registry) Score(v Variant, row features.Row) (Label, error) {
	switch v {
	case VariantA:
		return r.ScoreA(row)
	case VariantB:
		return r.ScoreB(row)
	default:
		return 0, perr.Scoringf("model: unknown variant %q", v)
	}
}

// Info describes what was loaded
func (r *Registry) Info() Info {
	out := r.info
	out.Variants = make([]VariantInfo, len(r.info.Variants))
	for i, v := range r.info.Variants {
		v.Inputs = append([]string(nil), v.Inputs...)
		v.Blocks = append([]string(nil), v.Blocks...)
		v.Artifacts = append([]ArtifactInfo(nil), v.Artifacts...)
		out.Variants[i] = v
	}
	return out
}

// Info is the registry summary exposed on the meta endpoints
type Info struct {
	Manifest string        `json:"manifest,omitempty"`
	Variants []VariantInfo `json:"variants"`
}

// VariantInfo summarises one loaded model
type VariantInfo struct {
	Variant    Variant        `json:"variant"`
	Inputs     []string       `json:"inputs"`
	Blocks     []string       `json:"blocks"`
	Features   int            `json:"features"`
	Classifier string         `json:"classifier"`
	Artifacts  []ArtifactInfo `json:"artifacts,omitempty"`
}

// ArtifactInfo identifies a file the registry read
type ArtifactInfo struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Bytes  int    `json:"bytes"`
}

func describe(v Variant, s scorer) VariantInfo {
	vi := VariantInfo{
		Variant:    v,
		Inputs:     v.Schema().Names(),
		Features:   s.pre.width,
		Classifier: s.clf.kind(),
	}
	for _, b := range s.pre.blocks {
		vi.Blocks = append(vi.Blocks, b.name())
	}
	return vi
}
