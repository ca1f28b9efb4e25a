package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeArtifact(t *testing.T, a *Artifact) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var vec, clf bytes.Buffer
	require.NoError(t, a.EncodeVectorizer(&vec))
	require.NoError(t, a.EncodeClassifier(&clf))
	return &vec, &clf
}

func TestArtifact_RoundTrip(t *testing.T) {
	vocab, params := trainScenario(t)
	trainedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a, err := NewArtifact(vocab, params, trainedAt)
	require.NoError(t, err)

	vec, clf := encodeArtifact(t, a)
	loaded, err := DecodeArtifact(vec, clf)
	require.NoError(t, err)

	assert.Equal(t, vocab.Terms(), loaded.Vocabulary.Terms())
	assert.Equal(t, vocab.IDF(), loaded.Vocabulary.IDF())
	assert.Equal(t, params.Weights, loaded.Params.Weights)
	assert.Equal(t, params.Bias, loaded.Params.Bias)
	assert.True(t, trainedAt.Equal(loaded.TrainedAt))

	for _, text := range []string{"please confirm your otp", "reminder for your appointment", ""} {
		wantLabel, wantP, err := a.Score(text)
		require.NoError(t, err)
		gotLabel, gotP, err := loaded.Score(text)
		require.NoError(t, err)
		assert.Equal(t, wantLabel, gotLabel)
		assert.Equal(t, wantP, gotP)
	}
}

func TestNewArtifact_ShapeMismatch(t *testing.T) {
	terms := make([]string, 500)
	idf := make([]float64, 500)
	for i := range terms {
		terms[i] = fmt.Sprintf("tok%03d", i)
		idf[i] = 1
	}
	vocab, err := NewVocabulary(terms, idf, 10)
	require.NoError(t, err)

	_, err = NewArtifact(vocab, &Parameters{Weights: make([]float64, 300)}, time.Now())
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 500, shapeErr.VocabularySize)
	assert.Equal(t, 300, shapeErr.WeightCount)
}

func TestDecodeArtifact_MismatchedPair(t *testing.T) {
	vocab, params := trainScenario(t)
	a, err := NewArtifact(vocab, params, time.Now())
	require.NoError(t, err)

	otherVocab, otherVecs, err := FitTransform([]string{"gift card payment today", "lunch tomorrow"})
	require.NoError(t, err)
	otherParams, err := FitLogistic(otherVecs, []int{1, 0}, otherVocab.Size(), DefaultTrainOptions())
	require.NoError(t, err)
	b, err := NewArtifact(otherVocab, otherParams, time.Now())
	require.NoError(t, err)

	vec, _ := encodeArtifact(t, a)
	_, clf := encodeArtifact(t, b)

	_, err = DecodeArtifact(vec, clf)
	var shapeErr *ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestDecodeArtifact_LoadErrors(t *testing.T) {
	vocab, params := trainScenario(t)
	a, err := NewArtifact(vocab, params, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name     string
		vec, clf func() *bytes.Buffer
		part     string
	}{
		{
			name: "corrupt vectorizer",
			vec:  func() *bytes.Buffer { return bytes.NewBufferString("{not json") },
			clf:  func() *bytes.Buffer { _, c := encodeArtifact(t, a); return c },
			part: PartVectorizer,
		},
		{
			name: "corrupt classifier",
			vec:  func() *bytes.Buffer { v, _ := encodeArtifact(t, a); return v },
			clf:  func() *bytes.Buffer { return bytes.NewBufferString("") },
			part: PartClassifier,
		},
		{
			name: "swapped blobs",
			vec:  func() *bytes.Buffer { _, c := encodeArtifact(t, a); return c },
			clf:  func() *bytes.Buffer { v, _ := encodeArtifact(t, a); return v },
			part: PartVectorizer,
		},
		{
			name: "declared dimension disagrees",
			vec:  func() *bytes.Buffer { v, _ := encodeArtifact(t, a); return v },
			clf: func() *bytes.Buffer {
				_, c := encodeArtifact(t, a)
				s := strings.Replace(c.String(), `"dimension":12`, `"dimension":11`, 1)
				return bytes.NewBufferString(s)
			},
			part: PartClassifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeArtifact(tt.vec(), tt.clf())
			var loadErr *ArtifactLoadError
			require.True(t, errors.As(err, &loadErr), "got %v", err)
			assert.Equal(t, tt.part, loadErr.Part)
		})
	}
}

func TestDecodeArtifact_MissingPart(t *testing.T) {
	vocab, params := trainScenario(t)
	a, err := NewArtifact(vocab, params, time.Now())
	require.NoError(t, err)
	vec, clf := encodeArtifact(t, a)

	_, err = DecodeArtifact(vec, nil)
	var loadErr *ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, PartClassifier, loadErr.Part)

	_, err = DecodeArtifact(nil, clf)
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, PartVectorizer, loadErr.Part)
}

func TestDecodeArtifact_StampMismatch(t *testing.T) {
	vocab, params := trainScenario(t)
	first, err := NewArtifact(vocab, params, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	second, err := NewArtifact(vocab, params, time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC))
	require.NoError(t, err)

	vec, _ := encodeArtifact(t, first)
	_, clf := encodeArtifact(t, second)

	_, err = DecodeArtifact(vec, clf)
	var loadErr *ArtifactLoadError
	require.True(t, errors.As(err, &loadErr), "got %v", err)
	assert.Equal(t, PartClassifier, loadErr.Part)
	assert.ErrorIs(t, err, ErrArtifactMismatch)
}
