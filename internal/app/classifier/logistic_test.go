package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioLabels = []int{1, 0, 1, 0}

func trainScenario(t *testing.T) (*Vocabulary, *Parameters) {
	t.Helper()
	vocab, vectors, err := FitTransform(scenarioTexts)
	require.NoError(t, err)
	params, err := FitLogistic(vectors, scenarioLabels, vocab.Size(), DefaultTrainOptions())
	require.NoError(t, err)
	return vocab, params
}

func TestFitLogistic_Scenario(t *testing.T) {
	vocab, params := trainScenario(t)

	label, err := params.Predict(vocab.Transform("please confirm your otp"))
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	label, err = params.Predict(vocab.Transform("reminder for your appointment"))
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestFitLogistic_SeparatesTrainingSet(t *testing.T) {
	vocab, params := trainScenario(t)

	for i, text := range scenarioTexts {
		p, err := params.PredictProba(vocab.Transform(text))
		require.NoError(t, err)
		if scenarioLabels[i] == 1 {
			assert.Greater(t, p, 0.5, text)
		} else {
			assert.Less(t, p, 0.5, text)
		}
	}
}

func TestFitLogistic_Deterministic(t *testing.T) {
	_, first := trainScenario(t)
	for i := 0; i < 3; i++ {
		_, again := trainScenario(t)
		assert.Equal(t, first.Weights, again.Weights)
		assert.Equal(t, first.Bias, again.Bias)
	}
}

func TestFitLogistic_StableInference(t *testing.T) {
	vocab, params := trainScenario(t)
	vec := vocab.Transform("verify your otp")

	want, err := params.PredictProba(vec)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		got, err := params.PredictProba(vocab.Transform("verify your otp"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPredict_ZeroVectorUsesBias(t *testing.T) {
	vocab, params := trainScenario(t)
	zero := vocab.Transform("")

	p, err := params.PredictProba(zero)
	require.NoError(t, err)
	assert.Equal(t, sigmoid(params.Bias), p)

	label, err := params.Predict(zero)
	require.NoError(t, err)
	want := 0
	if params.Bias >= 0 {
		want = 1
	}
	assert.Equal(t, want, label)
}

func TestPredict_ShapeError(t *testing.T) {
	params := &Parameters{Weights: make([]float64, 300)}
	_, err := params.Predict(FeatureVector{Dim: 500})

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 500, shapeErr.VocabularySize)
	assert.Equal(t, 300, shapeErr.WeightCount)
}

func TestPredict_Threshold(t *testing.T) {
	params := &Parameters{Weights: []float64{0}, Bias: 0, Threshold: 0.6}
	label, err := params.Predict(FeatureVector{Dim: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, label, "0.5 is below a 0.6 threshold")

	params.Threshold = 0
	label, err = params.Predict(FeatureVector{Dim: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, label, "unset threshold falls back to 0.5 inclusive")
}

func TestFitLogistic_InputErrors(t *testing.T) {
	good := FeatureVector{Dim: 2, Indices: []int{0}, Values: []float64{1}}

	_, err := FitLogistic(nil, nil, 2, DefaultTrainOptions())
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = FitLogistic([]FeatureVector{good}, []int{1, 0}, 2, DefaultTrainOptions())
	assert.ErrorIs(t, err, ErrLabelCountMismatch)

	_, err = FitLogistic([]FeatureVector{good}, []int{2}, 2, DefaultTrainOptions())
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = FitLogistic([]FeatureVector{good, {Dim: 3}}, []int{1, 0}, 2, DefaultTrainOptions())
	var dimErr *DimensionMismatchError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 1, dimErr.Index)
	assert.Equal(t, 3, dimErr.Got)
	assert.Equal(t, 2, dimErr.Want)
}

func TestFitLogistic_OnIteration(t *testing.T) {
	_, vectors, err := FitTransform(scenarioTexts)
	require.NoError(t, err)

	var iters []int
	var last float64
	opts := DefaultTrainOptions()
	opts.OnIteration = func(iter int, g float64) {
		iters = append(iters, iter)
		last = g
	}
	_, err = FitLogistic(vectors, scenarioLabels, vectors[0].Dim, opts)
	require.NoError(t, err)

	require.NotEmpty(t, iters)
	assert.Equal(t, 1, iters[0])
	assert.Less(t, len(iters), opts.MaxIter, "small corpus converges before the cap")
	assert.Less(t, last, opts.Tolerance)
}
