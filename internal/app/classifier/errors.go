package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned when fitting is attempted with no documents.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrEmptyVocabulary is returned when no document in the corpus yields a token.
	ErrEmptyVocabulary = errors.New("corpus produced an empty vocabulary")

	// ErrInvalidLabel is returned for a training label outside {0, 1}.
	ErrInvalidLabel = errors.New("label must be 0 or 1")

	// ErrLabelCountMismatch is returned when features and labels differ in length.
	ErrLabelCountMismatch = errors.New("feature and label counts differ")

	// ErrArtifactMismatch is returned when the two persisted blobs were
	// written by different training runs.
	ErrArtifactMismatch = errors.New("vectorizer and classifier come from different training runs")
)

// DimensionMismatchError reports a training vector whose dimension disagrees
// with the vocabulary size.
type DimensionMismatchError struct {
	Index int
	Got   int
	Want  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature vector %d has dimension %d, expected %d", e.Index, e.Got, e.Want)
}

// ShapeError reports a feature vector or vocabulary that does not match the
// dimension the classifier parameters were trained for.
type ShapeError struct {
	VocabularySize int
	WeightCount    int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch: vocabulary/vector dimension %d, classifier expects %d",
		e.VocabularySize, e.WeightCount)
}

// ArtifactLoadError reports a missing or corrupt persisted artifact part.
type ArtifactLoadError struct {
	Part string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load %s artifact: %v", e.Part, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}
