package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/types"
)

func writeJobConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJobConfig_ValidJSON(t *testing.T) {
	path := writeJobConfig(t, `{
		"title": "Senior ML Engineer",
		"description": "Build and operate ML systems.",
		"requirements": "Python, Kubernetes, TensorFlow",
		"min_experience_years": 5,
		"min_education": "bachelor",
		"rubric_weights": {"experience_ic": 0.3, "experience_mgmt": 0.15}
	}`)

	cfg, err := LoadJobConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Senior ML Engineer", cfg.Title)
	assert.Equal(t, 5, cfg.MinExperienceYears)
	assert.Equal(t, "bachelor", cfg.MinEducation)
	assert.Equal(t, 0.3, cfg.RubricWeights["experience_ic"])
}

func TestLoadJobConfig_InvalidJSON(t *testing.T) {
	path := writeJobConfig(t, `{ invalid json }`)

	cfg, err := LoadJobConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)

	var cfgErr *agents.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadJobConfig_MissingFile(t *testing.T) {
	cfg, err := LoadJobConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadJobConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadJobConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestJobConfigValidate(t *testing.T) {
	valid := JobConfig{
		Title:              "Data Engineer",
		Description:        "Pipelines.",
		Requirements:       "Python, SQL",
		MinExperienceYears: 2,
	}

	tests := []struct {
		name    string
		mutate  func(c *JobConfig)
		wantErr bool
	}{
		{"valid", func(c *JobConfig) {}, false},
		{"missing title", func(c *JobConfig) { c.Title = "" }, true},
		{"missing requirements", func(c *JobConfig) { c.Requirements = "" }, true},
		{"negative experience", func(c *JobConfig) { c.MinExperienceYears = -1 }, true},
		{"max below min", func(c *JobConfig) {
			c.MinExperienceYears = 8
			c.MaxExperienceYears = 3
		}, true},
		{"unknown education level", func(c *JobConfig) { c.MinEducation = "bootcamp" }, true},
		{"multi-word education level", func(c *JobConfig) { c.MinEducation = "high school" }, false},
		{"unknown rubric key", func(c *JobConfig) {
			c.RubricWeights = map[string]float64{"charisma": 1.0}
		}, true},
		{"rubric weights not summing to one", func(c *JobConfig) {
			c.RubricWeights = map[string]float64{"experience_ic": 0.3}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobConfigPosition(t *testing.T) {
	cfg := JobConfig{
		Title:              "Platform Engineer",
		Description:        "Infra.",
		Requirements:       "Go, Kubernetes",
		MinExperienceYears: 3,
		IsRemote:           true,
	}

	job := cfg.Position()
	require.NotNil(t, job)

	assert.NotEqual(t, [16]byte{}, [16]byte(job.ID))
	assert.Equal(t, "Platform Engineer", job.Title)
	assert.Equal(t, types.JobStatusOpen, job.Status)
	assert.True(t, job.IsRemote)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, []string{"Go", "Kubernetes"}, job.RequiredSkills())
}
