package classifier

import (
	"fmt"
	"math"
	"sort"
)

// Vocabulary is the frozen token-to-feature mapping learned by Fit, together
// with the inverse document frequency of every feature. A Vocabulary is never
// modified after construction and is safe for concurrent use.
type Vocabulary struct {
	terms     []string
	index     map[string]int
	idf       []float64
	documents int
}

// FeatureVector is a sparse TF-IDF vector. Indices are strictly increasing and
// Values holds the weight for each index.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Fit builds a vocabulary from corpus. Distinct tokens are indexed in
// lexicographic order and weighted with the smoothed idf
//
//	idf(t) = ln((1 + N) / (1 + df(t))) + 1
//
// where N is the number of documents and df(t) the number of documents
// containing t.
func Fit(corpus []string) (*Vocabulary, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for tok := range df {
		terms = append(terms, tok)
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for i, tok := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	return newVocabulary(terms, idf, len(corpus)), nil
}

// FitTransform fits a vocabulary on corpus and transforms every document with it.
func FitTransform(corpus []string) (*Vocabulary, []FeatureVector, error) {
	vocab, err := Fit(corpus)
	if err != nil {
		return nil, nil, err
	}
	vectors := make([]FeatureVector, len(corpus))
	for i, doc := range corpus {
		vectors[i] = vocab.Transform(doc)
	}
	return vocab, vectors, nil
}

// NewVocabulary rebuilds a vocabulary from its persisted form. terms must be
// unique and ordered by feature index, and idf must hold one positive weight
// per term.
func NewVocabulary(terms []string, idf []float64, documents int) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("vocabulary has %d terms but %d idf weights", len(terms), len(idf))
	}
	seen := make(map[string]struct{}, len(terms))
	for i, t := range terms {
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q at index %d", t, i)
		}
		seen[t] = struct{}{}
		if w := idf[i]; w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("invalid idf weight %v for term %q", w, t)
		}
	}
	return newVocabulary(append([]string(nil), terms...), append([]float64(nil), idf...), documents), nil
}

func newVocabulary(terms []string, idf []float64, documents int) *Vocabulary {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Vocabulary{terms: terms, index: index, idf: idf, documents: documents}
}

// Size returns the number of features.
func (v *Vocabulary) Size() int { return len(v.terms) }

// Documents returns the number of documents the vocabulary was fitted on.
func (v *Vocabulary) Documents() int { return v.documents }

// Index returns the feature index of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Terms returns a copy of the terms ordered by feature index.
func (v *Vocabulary) Terms() []string { return append([]string(nil), v.terms...) }

// IDF returns a copy of the idf weights ordered by feature index.
func (v *Vocabulary) IDF() []float64 { return append([]float64(nil), v.idf...) }

// Transform converts text into an L2-normalized TF-IDF vector. Tokens absent
// from the vocabulary are dropped. Text without known tokens yields the zero
// vector.
func (v *Vocabulary) Transform(text string) FeatureVector {
	counts := make(map[int]int)
	for _, tok := range Tokenize(text) {
		if i, ok := v.index[tok]; ok {
			counts[i]++
		}
	}

	fv := FeatureVector{Dim: len(v.terms)}
	if len(counts) == 0 {
		return fv
	}

	fv.Indices = make([]int, 0, len(counts))
	for i := range counts {
		fv.Indices = append(fv.Indices, i)
	}
	sort.Ints(fv.Indices)

	fv.Values = make([]float64, len(fv.Indices))
	var sq float64
	for k, i := range fv.Indices {
		w := float64(counts[i]) * v.idf[i]
		fv.Values[k] = w
		sq += w * w
	}
	norm := math.Sqrt(sq)
	for k := range fv.Values {
		fv.Values[k] /= norm
	}
	return fv
}

// Norm returns the Euclidean norm of the vector.
func (f FeatureVector) Norm() float64 {
	var sq float64
	for _, w := range f.Values {
		sq += w * w
	}
	return math.Sqrt(sq)
}

// IsZero reports whether the vector has no non-zero weight.
func (f FeatureVector) IsZero() bool { return len(f.Indices) == 0 }

// Dot returns the inner product of the vector with a dense weight slice.
// The caller guarantees len(weights) == f.Dim.
func (f FeatureVector) Dot(weights []float64) float64 {
	var s float64
	for k, i := range f.Indices {
		s += weights[i] * f.Values[k]
	}
	return s
}
