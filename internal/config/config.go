// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/scoring"
	"github.com/fairhire/fairhire/internal/types"
)

// JobConfig is a job position definition loaded from a JSON file. It carries
// the guardrail policy and rubric overrides for an evaluation run.
type JobConfig struct {
	Title       string `json:"title" validate:"required,min=1"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description" validate:"required,min=1"`

	// Requirements is a comma-separated list of required skills.
	Requirements string `json:"requirements" validate:"required,min=1"`
	NiceToHave   string `json:"nice_to_have,omitempty"`

	MinExperienceYears int    `json:"min_experience_years" validate:"min=0"`
	MaxExperienceYears int    `json:"max_experience_years,omitempty" validate:"min=0"`
	MinEducation       string `json:"min_education,omitempty" validate:"omitempty,oneof='high school' associate bachelor master phd"`
	MinAge             int    `json:"min_age,omitempty" validate:"min=0,max=120"`

	Location      string `json:"location,omitempty"`
	IsRemote      bool   `json:"is_remote,omitempty"`
	MaxCandidates int    `json:"max_candidates,omitempty" validate:"min=0"`

	// RubricWeights overrides the default scoring rubric when non-empty.
	RubricWeights map[string]float64 `json:"rubric_weights,omitempty"`
}

// LoadJobConfig loads a job position definition from a JSON file and
// validates it. Returns an error if the file cannot be read, parsed, or
// fails validation.
func LoadJobConfig(path string) (*JobConfig, error) {
	if path == "" {
		return nil, &agents.ConfigError{Message: "job config path is empty"}
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job config file %s: %w", path, err)
	}

	var cfg JobConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &agents.ConfigError{Message: "failed to parse job config JSON", Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the JobConfig using the validator, then cross-checks
// the experience range and the rubric weight overrides.
func (c *JobConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return &agents.ConfigError{Message: "invalid job config", Cause: err}
	}

	if c.MaxExperienceYears > 0 && c.MaxExperienceYears < c.MinExperienceYears {
		return &agents.ConfigError{
			Message: "max_experience_years must not be below min_experience_years",
		}
	}

	if len(c.RubricWeights) > 0 {
		if _, err := scoring.EffectiveWeights(c.RubricWeights); err != nil {
			return err
		}
	}
	return nil
}

// Position materializes the config as a fresh open JobPosition.
func (c *JobConfig) Position() *types.JobPosition {
	now := time.Now().UTC()
	return &types.JobPosition{
		ID:                 uuid.New(),
		Title:              c.Title,
		Department:         c.Department,
		Description:        c.Description,
		Requirements:       c.Requirements,
		NiceToHave:         c.NiceToHave,
		MinExperienceYears: c.MinExperienceYears,
		MaxExperienceYears: c.MaxExperienceYears,
		MinEducation:       c.MinEducation,
		MinAge:             c.MinAge,
		Location:           c.Location,
		IsRemote:           c.IsRemote,
		Status:             types.JobStatusOpen,
		MaxCandidates:      c.MaxCandidates,
		RubricWeights:      c.RubricWeights,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
