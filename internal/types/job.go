package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a job position.
type JobStatus string

// Job position statuses.
const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// JobPosition supplies the guardrail policy and rubric weights for a
// pipeline run. It is immutable for the duration of one run and is a
// read-only input to the guardrail and scorer agents.
type JobPosition struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Department  string    `json:"department,omitempty"`
	Description string    `json:"description"`

	// Requirements is a comma-separated list of required skills; it is both
	// the guardrail skill keyword source and the scorer's job context.
	Requirements string `json:"requirements"`
	NiceToHave   string `json:"nice_to_have,omitempty"`

	MinExperienceYears int    `json:"min_experience_years"`
	MaxExperienceYears int    `json:"max_experience_years,omitempty"`
	MinEducation       string `json:"min_education,omitempty"`
	MinAge             int    `json:"min_age,omitempty"`

	Location      string    `json:"location,omitempty"`
	IsRemote      bool      `json:"is_remote,omitempty"`
	Status        JobStatus `json:"status"`
	MaxCandidates int       `json:"max_candidates,omitempty"`

	// RubricWeights overrides the default scoring rubric when non-empty.
	// Weights must sum to 1.0 within epsilon.
	RubricWeights map[string]float64 `json:"rubric_weights,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequiredSkills splits the comma-separated requirements into trimmed,
// non-empty keywords for guardrail matching.
func (j *JobPosition) RequiredSkills() []string {
	if j.Requirements == "" {
		return nil
	}
	parts := strings.Split(j.Requirements, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
