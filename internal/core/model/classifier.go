package model

import (
	"math"

	perr "fraudscore/internal/platform/errors"
)

type classifier interface {
	kind() string
	inputs() int
	predict(x []float64) (Label, error)
}

func compileClassifier(spec *ClassifierSpec, variant Variant) (classifier, error) {
	if spec == nil {
		return nil, perr.Startupf("model: %s classifier missing", variant)
	}
	if spec.NFeatures <= 0 {
		return nil, perr.Startupf("model: %s classifier n_features must be positive", variant)
	}
	threshold := 0.5
	if spec.Threshold != nil {
		threshold = *spec.Threshold
		if threshold <= 0 || threshold >= 1 {
			return nil, perr.Startupf("model: %s threshold %v outside (0,1)", variant, threshold)
		}
	}

	switch spec.Kind {
	case KindLogisticRegression:
		if len(spec.Coef) != spec.NFeatures {
			return nil, perr.Startupf("model: %s logistic regression has %d coefficients for %d features",
				variant, len(spec.Coef), spec.NFeatures)
		}
		return &logistic{n: spec.NFeatures, coef: spec.Coef, intercept: spec.Intercept, threshold: threshold}, nil

	case KindRandomForest:
		classes := spec.Classes
		if len(classes) == 0 {
			classes = []int{0, 1}
		}
		for _, c := range classes {
			if c != int(Legit) && c != int(Fraud) {
				return nil, perr.Startupf("model: %s forest class %d is not a 0/1 label", variant, c)
			}
		}
		trees, err := compileTrees(spec.Trees, spec.NFeatures, len(classes), variant)
		if err != nil {
			return nil, err
		}
		return &forest{n: spec.NFeatures, classes: classes, trees: trees}, nil

	case KindGradientBoosting:
		lr := spec.LearningRate
		if lr <= 0 {
			return nil, perr.Startupf("model: %s gradient boosting learning_rate must be positive", variant)
		}
		trees, err := compileTrees(spec.Trees, spec.NFeatures, 1, variant)
		if err != nil {
			return nil, err
		}
		return &boosted{n: spec.NFeatures, init: spec.Init, lr: lr, trees: trees, threshold: threshold}, nil

	default:
		return nil, perr.Startupf("model: %s classifier kind %q not supported", variant, spec.Kind)
	}
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func widthCheck(kind string, want int, x []float64) error {
	if len(x) != want {
		return perr.Scoringf("model: %s expects %d features, got %d", kind, want, len(x))
	}
	return nil
}

// logistic regression

type logistic struct {
	n         int
	coef      []float64
	intercept float64
	threshold float64
}

func (l *logistic) kind() string { return KindLogisticRegression }
func (l *logistic) inputs() int  { return l.n }

func (l *logistic) predict(x []float64) (Label, error) {
	if err := widthCheck(l.kind(), l.n, x); err != nil {
		return 0, err
	}
	z := l.intercept
	for i, w := range l.coef {
		z += w * x[i]
	}
	return labelOf(sigmoid(z), l.threshold)
}

// random forest: mean of per-tree class probabilities, then argmax

type forest struct {
	n       int
	classes []int
	trees   []tree
}

func (f *forest) kind() string { return KindRandomForest }
func (f *forest) inputs() int  { return f.n }

func (f *forest) predict(x []float64) (Label, error) {
	if err := widthCheck(f.kind(), f.n, x); err != nil {
		return 0, err
	}
	proba := make([]float64, len(f.classes))
	for _, t := range f.trees {
		leaf := t.leaf(x)
		var sum float64
		for _, v := range leaf {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for k, v := range leaf {
			proba[k] += v / sum
		}
	}
	best := 0
	for k := 1; k < len(proba); k++ {
		if proba[k] > proba[best] {
			best = k
		}
	}
	return Label(f.classes[best]), nil
}

// gradient boosting: init + lr * sum(leaves), squashed

type boosted struct {
	n         int
	init      float64
	lr        float64
	trees     []tree
	threshold float64
}

func (b *boosted) kind() string { return KindGradientBoosting }
func (b *boosted) inputs() int  { return b.n }

func (b *boosted) predict(x []float64) (Label, error) {
	if err := widthCheck(b.kind(), b.n, x); err != nil {
		return 0, err
	}
	raw := b.init
	for _, t := range b.trees {
		raw += b.lr * t.leaf(x)[0]
	}
	return labelOf(sigmoid(raw), b.threshold)
}

func labelOf(p, threshold float64) (Label, error) {
	if math.IsNaN(p) {
		return 0, perr.Scoringf("model: probability is NaN")
	}
	if p > threshold {
		return Fraud, nil
	}
	return Legit, nil
}
