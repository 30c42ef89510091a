package search

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrNotFitted signals use of the vectorizer or index before a build or
// cache load. This is a caller contract violation, distinct from the
// legitimate "no matches" empty result.
var ErrNotFitted = errors.New("search: vectorizer not fitted")

// Vector is a sparse TF-IDF projection, keyed by vocabulary position.
type Vector map[int]float64

// Vectorizer is a character n-gram TF-IDF model. N-grams are taken
// inside word boundaries, each word padded with one space on each side,
// so "bord" with n=3 yields " bo", "bor", "ord", "rd ". Fields are
// exported for cache serialization.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
	MinN       int
	MaxN       int
	Fitted     bool
}

func NewVectorizer(minN, maxN int) *Vectorizer {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	return &Vectorizer{
		Vocabulary: make(map[string]int),
		MinN:       minN,
		MaxN:       maxN,
	}
}

// Fit builds the vocabulary and IDF statistics over the corpus. The
// vocabulary is ordered by sorted term for build-to-build stability.
func (v *Vectorizer) Fit(docs []string) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, gram := range v.ngrams(doc) {
			if _, ok := seen[gram]; ok {
				continue
			}
			seen[gram] = struct{}{}
			df[gram]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// smoothed IDF
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v.Fitted = true
}

// Transform projects text into the fitted space and L2-normalizes the
// result. Never refits: unseen n-grams are ignored, so a query with no
// lexical overlap yields the zero vector.
func (v *Vectorizer) Transform(text string) (Vector, error) {
	if !v.Fitted {
		return nil, ErrNotFitted
	}
	grams := v.ngrams(text)
	tf := make(map[int]float64)
	for _, gram := range grams {
		if idx, ok := v.Vocabulary[gram]; ok {
			tf[idx]++
		}
	}

	vec := make(Vector, len(tf))
	var norm float64
	for idx, count := range tf {
		w := (count / float64(len(grams))) * v.IDF[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec, nil
}

func (v *Vectorizer) ngrams(text string) []string {
	var grams []string
	for _, word := range strings.Fields(text) {
		padded := []rune(" " + word + " ")
		for n := v.MinN; n <= v.MaxN; n++ {
			if n > len(padded) {
				break
			}
			for i := 0; i+n <= len(padded); i++ {
				grams = append(grams, string(padded[i:i+n]))
			}
		}
	}
	return grams
}

// Cosine computes the cosine similarity between two sparse vectors.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (norm(a) * norm(b))
}

func norm(v Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
