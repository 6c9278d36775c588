package model

import "time"

// RiceScore is a single saved RICE prioritization entry. Reach, impact, and
// effort are 1-10 integers in the current schema; legacy entries used raw user
// counts for reach, a 0.25-3 continuous scale for impact, and person-months
// for effort, and are rewritten by the migration layer before use.
type RiceScore struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Reach      float64    `json:"reach" yaml:"reach"`
	Impact     float64    `json:"impact" yaml:"impact"`
	Confidence float64    `json:"confidence" yaml:"confidence"` // 0-100 percentage
	Effort     float64    `json:"effort" yaml:"effort"`
	Score      float64    `json:"score" yaml:"score"` // derived, rounded to one decimal
	Note       string     `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	MigratedAt *time.Time `json:"migrated_at,omitempty" yaml:"migrated_at,omitempty"`
}

// RiceHistory is the versioned persistence wrapper for saved RICE scores.
type RiceHistory struct {
	Version int         `json:"version" yaml:"version"`
	Scores  []RiceScore `json:"scores" yaml:"scores"`
}
