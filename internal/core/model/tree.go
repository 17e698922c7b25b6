package model

import (
	perr "fraudscore/internal/platform/errors"
)

type tree struct {
	left, right []int
	feature     []int
	threshold   []float64
	value       [][]float64
}

// leaf walks from the root; x <= threshold goes left
func (t *tree) leaf(x []float64) []float64 {
	n := 0
	for t.left[n] != -1 {
		if x[t.feature[n]] <= t.threshold[n] {
			n = t.left[n]
		} else {
			n = t.right[n]
		}
	}
	return t.value[n]
}

// compileTrees validates node arrays
// Children must sit after their parent, which rules out cycles and keeps leaf() finite
func compileTrees(specs []TreeSpec, nFeatures, nOutputs int, variant Variant) ([]tree, error) {
	if len(specs) == 0 {
		return nil, perr.Startupf("model: %s ensemble has no trees", variant)
	}
	out := make([]tree, len(specs))
	for ti, s := range specs {
		n := len(s.Left)
		if n == 0 || len(s.Right) != n || len(s.Feature) != n || len(s.Threshold) != n || len(s.Value) != n {
			return nil, perr.Startupf("model: %s tree %d has ragged node arrays", variant, ti)
		}
		for node := 0; node < n; node++ {
			l, r := s.Left[node], s.Right[node]
			if l == -1 {
				if r != -1 {
					return nil, perr.Startupf("model: %s tree %d node %d is half a leaf", variant, ti, node)
				}
				if len(s.Value[node]) != nOutputs {
					return nil, perr.Startupf("model: %s tree %d leaf %d has %d outputs, want %d",
						variant, ti, node, len(s.Value[node]), nOutputs)
				}
				continue
			}
			if l <= node || r <= node || l >= n || r >= n {
				return nil, perr.Startupf("model: %s tree %d node %d has bad children %d,%d", variant, ti, node, l, r)
			}
			if f := s.Feature[node]; f < 0 || f >= nFeatures {
				return nil, perr.Startupf("model: %s tree %d node %d splits on feature %d of %d", variant, ti, node, f, nFeatures)
			}
		}
		out[ti] = tree{left: s.Left, right: s.Right, feature: s.Feature, threshold: s.Threshold, value: s.Value}
	}
	return out, nil
}
