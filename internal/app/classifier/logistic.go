package classifier

import (
	"math"
)

// DefaultThreshold is the fraud probability at or above which Predict returns 1.
const DefaultThreshold = 0.5

// Parameters are the weights and bias of a trained linear logistic model.
type Parameters struct {
	Weights   []float64
	Bias      float64
	Threshold float64
}

// TrainOptions controls logistic regression fitting.
type TrainOptions struct {
	// C is the inverse regularization strength. The minimized objective is
	// 0.5*||w||^2 + C * sum(logloss); the bias is not regularized.
	C float64
	// MaxIter caps the number of gradient descent iterations.
	MaxIter int
	// Tolerance stops training once the largest absolute gradient
	// component of the averaged objective drops below it.
	Tolerance float64
	// Threshold is stored in the returned Parameters.
	Threshold float64
	// OnIteration, when set, is called after each iteration with the
	// iteration number (1-based) and the current gradient max-norm.
	OnIteration func(iter int, gradNorm float64)
}

// DefaultTrainOptions returns options equivalent to an unweighted, L2
// penalized logistic regression with C = 1.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		C:         1.0,
		MaxIter:   1000,
		Tolerance: 1e-4,
		Threshold: DefaultThreshold,
	}
}

func (o TrainOptions) withDefaults() TrainOptions {
	d := DefaultTrainOptions()
	if o.C <= 0 {
		o.C = d.C
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.Threshold <= 0 || o.Threshold >= 1 {
		o.Threshold = d.Threshold
	}
	return o
}

// FitLogistic trains a binary logistic regression model with full-batch
// gradient descent starting from zero weights. dim is the vocabulary size
// every vector must match. Training is deterministic: identical inputs in the
// same order produce bit-identical parameters.
func FitLogistic(features []FeatureVector, labels []int, dim int, opts TrainOptions) (*Parameters, error) {
	if len(features) == 0 {
		return nil, ErrEmptyCorpus
	}
	if len(features) != len(labels) {
		return nil, ErrLabelCountMismatch
	}
	for i, f := range features {
		if f.Dim != dim {
			return nil, &DimensionMismatchError{Index: i, Got: f.Dim, Want: dim}
		}
		if labels[i] != 0 && labels[i] != 1 {
			return nil, ErrInvalidLabel
		}
	}
	opts = opts.withDefaults()

	n := float64(len(features))
	// Averaged objective: (1/(2Cn))*||w||^2 + (1/n)*sum(logloss). Its gradient
	// is Lipschitz with constant at most 1/(Cn) + 0.5 because every vector has
	// norm <= 1 and the bias feature adds 1.
	reg := 1 / (opts.C * n)
	step := 1 / (reg + 0.5)

	w := make([]float64, dim)
	grad := make([]float64, dim)
	var b float64

	for iter := 1; iter <= opts.MaxIter; iter++ {
		for j := range grad {
			grad[j] = reg * w[j]
		}
		var gb float64
		for i, f := range features {
			r := (sigmoid(f.Dot(w)+b) - float64(labels[i])) / n
			for k, j := range f.Indices {
				grad[j] += r * f.Values[k]
			}
			gb += r
		}

		gnorm := math.Abs(gb)
		for _, g := range grad {
			if a := math.Abs(g); a > gnorm {
				gnorm = a
			}
		}
		if opts.OnIteration != nil {
			opts.OnIteration(iter, gnorm)
		}
		if gnorm < opts.Tolerance {
			break
		}

		for j := range w {
			w[j] -= step * grad[j]
		}
		b -= step * gb
	}

	return &Parameters{Weights: w, Bias: b, Threshold: opts.Threshold}, nil
}

// Dim returns the feature dimension the parameters expect.
func (p *Parameters) Dim() int { return len(p.Weights) }

// PredictProba returns the fraud probability sigmoid(w·x + b).
func (p *Parameters) PredictProba(f FeatureVector) (float64, error) {
	if f.Dim != len(p.Weights) {
		return 0, &ShapeError{VocabularySize: f.Dim, WeightCount: len(p.Weights)}
	}
	return sigmoid(f.Dot(p.Weights) + p.Bias), nil
}

// Predict returns 1 when the fraud probability reaches the threshold and 0
// otherwise.
func (p *Parameters) Predict(f FeatureVector) (int, error) {
	score, err := p.PredictProba(f)
	if err != nil {
		return 0, err
	}
	return p.label(score), nil
}

func (p *Parameters) label(score float64) int {
	t := p.Threshold
	if t <= 0 || t >= 1 {
		t = DefaultThreshold
	}
	if score >= t {
		return 1
	}
	return 0
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
