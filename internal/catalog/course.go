package catalog

import "strings"

// Source identifies the origin of a course record
type Source string

const (
	SourceInternal Source = "internal"
	SourceExternal Source = "external"
)

// Unspecified is the display fallback for absent descriptive fields
const Unspecified = "non spécifié"

// Course is one training offer ("formation"), normalized from either
// the internal catalog or the RNCP registry.
type Course struct {
	ID     string
	Title  string
	Source Source

	Objectives    []string
	Prerequisites []string
	Programme     []string
	Audience      []string
	Level         string
	Modality      string
	Duration      string
	Price         string
	Location      string
	Link          string
	Careers       string
	Certifying    *bool

	// SearchText is the concatenation of the source-specific descriptive
	// fields, recomputed at load time. It is never written back.
	SearchText string

	// registry-only descriptive text, kept for search only
	activities   string
	competencies string
}

// IsCertifying applies the source rule: registry courses are certifying
// by definition, internal courses only when the explicit flag says so.
func (c *Course) IsCertifying() bool {
	if c.Source == SourceExternal {
		return true
	}
	return c.Certifying != nil && *c.Certifying
}

// Display returns the value or the "non spécifié" fallback when empty.
func Display(value string) string {
	if strings.TrimSpace(value) == "" {
		return Unspecified
	}
	return value
}

func (c *Course) buildSearchText() {
	parts := []string{c.Title}
	switch c.Source {
	case SourceExternal:
		parts = append(parts, c.Careers, c.activities, c.competencies)
	default:
		parts = append(parts, strings.Join(c.Objectives, " "),
			strings.Join(c.Programme, " "),
			strings.Join(c.Audience, " "))
	}
	c.SearchText = strings.TrimSpace(strings.Join(parts, " "))
}
