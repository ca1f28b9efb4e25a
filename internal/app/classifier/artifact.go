package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	vectorizerFormat = "callguard.tfidf"
	classifierFormat = "callguard.logreg"
	formatVersion    = 1

	// PartVectorizer and PartClassifier name the two persisted blobs.
	PartVectorizer = "vectorizer"
	PartClassifier = "classifier"
)

// Artifact is the deployable pair of a vocabulary and the classifier
// parameters trained on it. NewArtifact and DecodeArtifact guarantee that the
// two agree on dimension.
type Artifact struct {
	Vocabulary *Vocabulary
	Params     *Parameters
	TrainedAt  time.Time
}

// NewArtifact pairs a vocabulary with parameters, rejecting mismatched shapes.
func NewArtifact(vocab *Vocabulary, params *Parameters, trainedAt time.Time) (*Artifact, error) {
	if vocab == nil || params == nil {
		return nil, errors.New("artifact requires both vocabulary and parameters")
	}
	if vocab.Size() != params.Dim() {
		return nil, &ShapeError{VocabularySize: vocab.Size(), WeightCount: params.Dim()}
	}
	return &Artifact{Vocabulary: vocab, Params: params, TrainedAt: trainedAt.UTC()}, nil
}

// Score transforms text with the frozen vocabulary and returns the predicted
// label together with the fraud probability.
func (a *Artifact) Score(text string) (int, float64, error) {
	proba, err := a.Params.PredictProba(a.Vocabulary.Transform(text))
	if err != nil {
		return 0, 0, err
	}
	return a.Params.label(proba), proba, nil
}

type vectorizerBlob struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Documents int       `json:"documents"`
	Terms     []string  `json:"terms"`
	IDF       []float64 `json:"idf"`
	TrainedAt time.Time `json:"trained_at"`
}

type classifierBlob struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Dimension int       `json:"dimension"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
	TrainedAt time.Time `json:"trained_at"`
}

// EncodeVectorizer writes the vocabulary and idf table as JSON.
func (a *Artifact) EncodeVectorizer(w io.Writer) error {
	return json.NewEncoder(w).Encode(vectorizerBlob{
		Format:    vectorizerFormat,
		Version:   formatVersion,
		Documents: a.Vocabulary.documents,
		Terms:     a.Vocabulary.terms,
		IDF:       a.Vocabulary.idf,
		TrainedAt: a.TrainedAt,
	})
}

// EncodeClassifier writes the classifier parameters as JSON.
func (a *Artifact) EncodeClassifier(w io.Writer) error {
	return json.NewEncoder(w).Encode(classifierBlob{
		Format:    classifierFormat,
		Version:   formatVersion,
		Dimension: a.Params.Dim(),
		Weights:   a.Params.Weights,
		Bias:      a.Params.Bias,
		Threshold: a.Params.Threshold,
		TrainedAt: a.TrainedAt,
	})
}

// DecodeArtifact reads both persisted blobs and validates that they form a
// consistent pair. Corrupt input yields *ArtifactLoadError, a dimension
// disagreement yields *ShapeError. Both blobs carry the trained_at stamp of
// the run that wrote them; a pair from two different runs is rejected as an
// *ArtifactLoadError on the classifier part.
func DecodeArtifact(vectorizer, classifier io.Reader) (*Artifact, error) {
	if vectorizer == nil {
		return nil, &ArtifactLoadError{Part: PartVectorizer, Err: errors.New("missing")}
	}
	if classifier == nil {
		return nil, &ArtifactLoadError{Part: PartClassifier, Err: errors.New("missing")}
	}

	var vb vectorizerBlob
	if err := json.NewDecoder(vectorizer).Decode(&vb); err != nil {
		return nil, &ArtifactLoadError{Part: PartVectorizer, Err: err}
	}
	if vb.Format != vectorizerFormat || vb.Version != formatVersion {
		return nil, &ArtifactLoadError{Part: PartVectorizer,
			Err: fmt.Errorf("unsupported format %q version %d", vb.Format, vb.Version)}
	}
	vocab, err := NewVocabulary(vb.Terms, vb.IDF, vb.Documents)
	if err != nil {
		return nil, &ArtifactLoadError{Part: PartVectorizer, Err: err}
	}

	var cb classifierBlob
	if err := json.NewDecoder(classifier).Decode(&cb); err != nil {
		return nil, &ArtifactLoadError{Part: PartClassifier, Err: err}
	}
	if cb.Format != classifierFormat || cb.Version != formatVersion {
		return nil, &ArtifactLoadError{Part: PartClassifier,
			Err: fmt.Errorf("unsupported format %q version %d", cb.Format, cb.Version)}
	}
	if cb.Dimension != len(cb.Weights) {
		return nil, &ArtifactLoadError{Part: PartClassifier,
			Err: fmt.Errorf("declared dimension %d but %d weights", cb.Dimension, len(cb.Weights))}
	}

	params := &Parameters{Weights: cb.Weights, Bias: cb.Bias, Threshold: cb.Threshold}
	artifact, err := NewArtifact(vocab, params, cb.TrainedAt)
	if err != nil {
		return nil, err
	}
	if !vb.TrainedAt.Equal(cb.TrainedAt) {
		return nil, &ArtifactLoadError{Part: PartClassifier,
			Err: fmt.Errorf("%w: classifier trained_at %s, vectorizer trained_at %s",
				ErrArtifactMismatch, cb.TrainedAt.Format(time.RFC3339Nano), vb.TrainedAt.Format(time.RFC3339Nano))}
	}
	return artifact, nil
}
