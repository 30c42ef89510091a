package api

import "github.com/beyond-expertise/backend/internal/catalog"

// CourseView is the wire representation of a course. Absent descriptive
// fields degrade to "non spécifié" so the presentation layer never has
// to guard against missing data.
type CourseView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Source        string   `json:"source"`
	Objectives    []string `json:"objectives,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Programme     []string `json:"programme,omitempty"`
	Level         string   `json:"level"`
	Modality      string   `json:"modality"`
	Duration      string   `json:"duration"`
	Price         string   `json:"price"`
	Location      string   `json:"location"`
	Careers       string   `json:"careers,omitempty"`
	Link          string   `json:"link,omitempty"`
	Certifying    bool     `json:"certifying"`
}

// ScoredView pairs a course view with its ranking score.
type ScoredView struct {
	Course CourseView `json:"course"`
	Score  float64    `json:"score"`
}

func newCourseView(c *catalog.Course) CourseView {
	return CourseView{
		ID:            c.ID,
		Title:         c.Title,
		Source:        string(c.Source),
		Objectives:    c.Objectives,
		Prerequisites: c.Prerequisites,
		Programme:     c.Programme,
		Level:         catalog.Display(c.Level),
		Modality:      catalog.Display(c.Modality),
		Duration:      catalog.Display(c.Duration),
		Price:         catalog.Display(c.Price),
		Location:      catalog.Display(c.Location),
		Careers:       c.Careers,
		Link:          c.Link,
		Certifying:    c.IsCertifying(),
	}
}
