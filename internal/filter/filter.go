// Package filter selects courses matching explicit structured criteria:
// certification, modality, level, duration and price bounds.
package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beyond-expertise/backend/internal/catalog"
)

// Modality is a delivery mode requested by the user.
type Modality string

const (
	OnSite Modality = "site"
	Remote Modality = "distance"
	Hybrid Modality = "hybride"
)

// ParseModality maps user-facing labels onto a Modality.
func ParseModality(s string) (Modality, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "site", "sur site", "on-site", "présentiel", "presentiel":
		return OnSite, true
	case "distance", "à distance", "a distance", "remote", "distanciel":
		return Remote, true
	case "hybride", "hybrid", "mixte":
		return Hybrid, true
	}
	return "", false
}

// Criteria is a sparse filter; absent fields do not constrain. All
// present fields combine with logical AND.
type Criteria struct {
	Certifying      *bool
	Modalities      []Modality
	LevelContains   string
	MaxDurationDays int
	PriceMin        *float64
	PriceMax        *float64
}

var (
	durationPattern = regexp.MustCompile(`(\d+)\s*jours?`)
	pricePattern    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// Apply returns the courses matching every present criterion,
// de-duplicated by ID keeping the first occurrence. Callers merging
// adjacent level buckets may present the same course twice.
func Apply(courses []*catalog.Course, c Criteria) []*catalog.Course {
	seen := make(map[string]struct{}, len(courses))
	var out []*catalog.Course
	for _, course := range courses {
		if _, dup := seen[course.ID]; dup {
			continue
		}
		if !matches(course, c) {
			continue
		}
		seen[course.ID] = struct{}{}
		out = append(out, course)
	}
	return out
}

func matches(course *catalog.Course, c Criteria) bool {
	external := course.Source == catalog.SourceExternal

	if c.Certifying != nil && *c.Certifying != course.IsCertifying() {
		return false
	}

	if len(c.Modalities) > 0 {
		// Registry courses carry no reliable modality data, so any
		// modality request excludes them outright.
		if external {
			return false
		}
		if !modalityMatch(course, c.Modalities) {
			return false
		}
	}

	if c.LevelContains != "" &&
		!strings.Contains(strings.ToLower(course.Level), strings.ToLower(c.LevelContains)) {
		return false
	}

	// Duration applies only to internal courses with a parseable
	// "N jours" value; everything else passes through.
	if c.MaxDurationDays > 0 && !external {
		if m := durationPattern.FindStringSubmatch(course.Duration); m != nil {
			if days, err := strconv.Atoi(m[1]); err == nil && days > c.MaxDurationDays {
				return false
			}
		}
	}

	if c.PriceMin != nil || c.PriceMax != nil {
		price, ok := parsePrice(course.Price)
		if !ok {
			// missing or unparseable price is not "free"
			return false
		}
		if c.PriceMin != nil && price < *c.PriceMin {
			return false
		}
		if c.PriceMax != nil && price > *c.PriceMax {
			return false
		}
	}

	return true
}

func modalityMatch(course *catalog.Course, wanted []Modality) bool {
	modality := strings.ToLower(course.Modality)
	location := strings.ToLower(course.Location)
	for _, mod := range wanted {
		switch mod {
		case Remote:
			if strings.Contains(modality, "distance") || strings.Contains(location, "distance") {
				return true
			}
		case OnSite:
			if strings.Contains(modality, "site") || strings.Contains(location, "site") ||
				strings.Contains(modality, "présentiel") {
				return true
			}
		case Hybrid:
			if strings.Contains(modality, "hybride") {
				return true
			}
		}
	}
	return false
}

// parsePrice extracts the first decimal number from a free-text price
// such as "1 200 € TTC" or "0".
func parsePrice(raw string) (float64, bool) {
	compact := strings.NewReplacer(" ", "", "\u00a0", "").Replace(raw)
	m := pricePattern.FindString(compact)
	if m == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
