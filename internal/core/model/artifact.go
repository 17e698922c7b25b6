package model

import (
	"bytes"
	"encoding/json"

	perr "fraudscore/internal/platform/errors"
)

// Artifact kinds
const (
	KindColumnTransformer  = "column_transformer"
	KindPipeline           = "pipeline"
	KindLogisticRegression = "logistic_regression"
	KindRandomForest       = "random_forest"
	KindGradientBoosting   = "gradient_boosting"

	BlockStandardScaler = "standard_scaler"
	BlockOneHot         = "one_hot"
	BlockPassthrough    = "passthrough"
)

// TransformerSpec is the exported form of a fitted column transformer
type TransformerSpec struct {
	Kind         string      `json:"kind"`
	Input        []string    `json:"input"`
	Transformers []BlockSpec `json:"transformers"`
	Remainder    string      `json:"remainder,omitempty"`
}

// BlockSpec is one (name, transformer, columns) entry of a column transformer
type BlockSpec struct {
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Columns       []string   `json:"columns"`
	Mean          []float64  `json:"mean,omitempty"`
	Scale         []float64  `json:"scale,omitempty"`
	Categories    [][]string `json:"categories,omitempty"`
	HandleUnknown string     `json:"handle_unknown,omitempty"`
}

// ClassifierSpec is the exported form of a fitted binary classifier
type ClassifierSpec struct {
	Kind         string     `json:"kind"`
	NFeatures    int        `json:"n_features"`
	Threshold    *float64   `json:"threshold,omitempty"`
	Coef         []float64  `json:"coef,omitempty"`
	Intercept    float64    `json:"intercept,omitempty"`
	Classes      []int      `json:"classes,omitempty"`
	Init         float64    `json:"init,omitempty"`
	LearningRate float64    `json:"learning_rate,omitempty"`
	Trees        []TreeSpec `json:"trees,omitempty"`
}

// TreeSpec mirrors the flat node arrays of a fitted decision tree
// Node 0 is the root; a left child of -1 marks a leaf
type TreeSpec struct {
	Left      []int       `json:"children_left"`
	Right     []int       `json:"children_right"`
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Value     [][]float64 `json:"value"`
}

// PipelineSpec is a preprocessor fused with its classifier
type PipelineSpec struct {
	Kind         string           `json:"kind"`
	Preprocessor *TransformerSpec `json:"preprocessor"`
	Classifier   *ClassifierSpec  `json:"classifier"`
}

// decodeStrict rejects unknown fields and trailing data so a wrong artifact fails loudly
func decodeStrict(name string, b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStartup, "model: decode %s", name)
	}
	if dec.More() {
		return perr.Startupf("model: decode %s: trailing data", name)
	}
	return nil
}
