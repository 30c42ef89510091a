// Package search builds and queries the character n-gram TF-IDF index
// over the course corpus.
package search

import (
	"sort"

	"github.com/beyond-expertise/backend/internal/catalog"
	"github.com/beyond-expertise/backend/internal/textnorm"
)

// Match pairs a course with its similarity to a query.
type Match struct {
	Course *catalog.Course
	Score  float64
}

// Index is the fitted vectorizer plus the document matrix and the
// parallel metadata list. Invariant: Meta[i] is the course whose
// normalized search text produced Rows[i]; both slices are only ever
// built together and never reordered afterwards.
type Index struct {
	Vectorizer  *Vectorizer
	Rows        []Vector
	Meta        []*catalog.Course
	Fingerprint string

	norm *textnorm.Normalizer
}

// Build fits a fresh index over the corpus. Courses whose normalized
// search text is empty stay in the corpus but cannot be found by text
// search, so they get no row.
func Build(corpus *catalog.Corpus, normalizer *textnorm.Normalizer, minN, maxN int) *Index {
	ix := &Index{
		Vectorizer:  NewVectorizer(minN, maxN),
		Fingerprint: corpus.Fingerprint,
		norm:        normalizer,
	}

	var docs []string
	for _, course := range corpus.Courses {
		text := normalizer.Normalize(course.SearchText)
		if text == "" {
			continue
		}
		docs = append(docs, text)
		ix.Meta = append(ix.Meta, course)
	}

	ix.Vectorizer.Fit(docs)
	ix.Rows = make([]Vector, len(docs))
	for i, doc := range docs {
		row, _ := ix.Vectorizer.Transform(doc)
		ix.Rows[i] = row
	}
	return ix
}

// Search normalizes the query, projects it with the already-fitted
// vectorizer and returns the top k non-zero cosine matches, descending.
// An empty or fully-stopword query legitimately returns no matches.
func (ix *Index) Search(query string, k int) ([]Match, error) {
	if ix.Vectorizer == nil || !ix.Vectorizer.Fitted {
		return nil, ErrNotFitted
	}
	qv, err := ix.Vectorizer.Transform(ix.norm.Normalize(query))
	if err != nil {
		return nil, err
	}

	var matches []Match
	for i, row := range ix.Rows {
		if score := Cosine(qv, row); score > 0 {
			matches = append(matches, Match{Course: ix.Meta[i], Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}
