// Package match scores courses against a structured user profile
// (objective, known skills, level) by keyword containment.
package match

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beyond-expertise/backend/internal/catalog"
)

// profileStopWords are the function words stripped from profile text
// before keyword extraction.
var profileStopWords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "de": {}, "des": {}, "du": {}, "un": {},
	"une": {}, "et": {}, "à": {}, "en": {}, "au": {}, "aux": {}, "pour": {},
	"avec": {}, "dans": {}, "sur": {}, "par": {}, "se": {}, "son": {},
	"sa": {}, "ses": {}, "ce": {}, "cette": {}, "ces": {}, "est": {},
	"qui": {}, "que": {}, "dont": {}, "je": {}, "tu": {}, "il": {},
	"elle": {}, "on": {}, "nous": {}, "vous": {}, "ils": {}, "elles": {},
}

// Scored pairs a course with its profile match score.
type Scored struct {
	Course *catalog.Course
	Score  int
}

// Matcher scores courses against user profiles.
type Matcher struct {
	logger *logrus.Entry
}

func New(logger *logrus.Entry) *Matcher {
	return &Matcher{logger: logger}
}

// Keywords extracts the significant profile tokens: lowercased, split on
// whitespace and commas, stop words removed, de-duplicated in first-seen
// order.
func (m *Matcher) Keywords(objective, knowledge string) []string {
	raw := strings.Fields(strings.ReplaceAll(strings.ToLower(objective), ",", " "))
	raw = append(raw, strings.Fields(strings.ReplaceAll(strings.ToLower(knowledge), ",", " "))...)

	seen := make(map[string]struct{}, len(raw))
	var tokens []string
	for _, t := range raw {
		if _, stop := profileStopWords[t]; stop {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// Match scores every course by the number of profile tokens contained in
// its objectives+prerequisites+programme text, plus a level bonus, and
// returns the courses at or above minScore, descending. Ties keep corpus
// order. minScore has no canonical default, the caller chooses it.
func (m *Matcher) Match(courses []*catalog.Course, objective, knowledge, level string, minScore int) []Scored {
	tokens := m.Keywords(objective, knowledge)
	if len(tokens) == 0 {
		m.logger.Warn("No profile tokens extracted, nothing to match")
		return nil
	}

	var results []Scored
	for _, course := range courses {
		score := m.score(course, tokens, level)
		if score >= minScore {
			results = append(results, Scored{Course: course, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	m.logger.WithFields(logrus.Fields{
		"tokens":    len(tokens),
		"min_score": minScore,
		"matched":   len(results),
	}).Debug("Profile matching done")
	return results
}

func (m *Matcher) score(course *catalog.Course, tokens []string, level string) int {
	text := strings.ToLower(strings.Join([]string{
		strings.Join(course.Objectives, " "),
		strings.Join(course.Prerequisites, " "),
		strings.Join(course.Programme, " "),
	}, " "))

	score := 0
	for _, t := range tokens {
		if strings.Contains(text, t) {
			score++
		}
	}

	// Level bonus. Deliberately asymmetric: "intermédiaire" gets none.
	courseLevel := strings.ToLower(course.Level)
	switch level {
	case "débutant":
		if strings.Contains(courseLevel, "débutant") || len(course.Prerequisites) == 0 {
			score += 2
		}
	case "avancé":
		if strings.Contains(courseLevel, "avancé") {
			score++
		}
	}
	return score
}
