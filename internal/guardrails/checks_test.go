package guardrails

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/types"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func baseJob() *types.JobPosition {
	return &types.JobPosition{
		Title:              "Senior ML Engineer",
		Requirements:       "Python, Kubernetes, TensorFlow, SQL, Docker",
		MinExperienceYears: 5,
	}
}

func baseParsed() *types.ParsedResume {
	return &types.ParsedResume{
		FirstName:       "Jordan",
		LastName:        "Reyes",
		ExperienceYears: floatPtr(7),
		Skills:          []string{"Python", "Kubernetes", "Go"},
		Education: []types.EducationEntry{
			{Degree: "BS Computer Science", Institution: "State University"},
		},
	}
}

func TestEvaluateRequiresJobPolicy(t *testing.T) {
	_, err := Evaluate(baseParsed(), nil)
	require.Error(t, err)

	var cfgErr *agents.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestEvaluateRequiresParsedData(t *testing.T) {
	_, err := Evaluate(nil, baseJob())
	require.Error(t, err)

	var valErr *agents.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestEvaluateAllChecksPass(t *testing.T) {
	results, err := Evaluate(baseParsed(), baseJob())
	require.NoError(t, err)

	for _, name := range []string{CheckExperience, CheckSkills, CheckEducation, CheckAge, CheckOverall} {
		require.Contains(t, results, name)
	}
	assert.True(t, results[CheckOverall].Pass)
	assert.True(t, Passed(results))
}

func TestExperienceBelowMinimumFails(t *testing.T) {
	// Scenario: job requires 5 years, candidate has 3. The guardrail fails
	// no matter how well the candidate scores later.
	parsed := baseParsed()
	parsed.ExperienceYears = floatPtr(3)

	results, err := Evaluate(parsed, baseJob())
	require.NoError(t, err)

	assert.False(t, results[CheckExperience].Pass)
	assert.Contains(t, results[CheckExperience].Reason, "below minimum of 5 years")
	assert.False(t, Passed(results))
}

func TestMissingExperienceFails(t *testing.T) {
	parsed := baseParsed()
	parsed.ExperienceYears = nil

	results, err := Evaluate(parsed, baseJob())
	require.NoError(t, err)

	assert.False(t, results[CheckExperience].Pass)
	assert.False(t, results[CheckExperience].Skipped)
}

func TestAgeCheckSkippedWhenUnknown(t *testing.T) {
	parsed := baseParsed()
	parsed.Age = nil

	results, err := Evaluate(parsed, baseJob())
	require.NoError(t, err)

	age := results[CheckAge]
	assert.True(t, age.Pass)
	assert.True(t, age.Skipped)
	assert.True(t, Passed(results), "unknown age must never fail the candidate")
}

func TestAgeBelowMinimumFails(t *testing.T) {
	parsed := baseParsed()
	parsed.Age = intPtr(16)

	results, err := Evaluate(parsed, baseJob())
	require.NoError(t, err)

	assert.False(t, results[CheckAge].Pass)
	assert.False(t, Passed(results))
}

func TestAgeUsesJobMinimum(t *testing.T) {
	parsed := baseParsed()
	parsed.Age = intPtr(20)

	job := baseJob()
	job.MinAge = 21

	results, err := Evaluate(parsed, job)
	require.NoError(t, err)
	assert.False(t, results[CheckAge].Pass)
}

func TestSkillsCheck(t *testing.T) {
	tests := []struct {
		name     string
		skills   []string
		wantPass bool
	}{
		{"no overlap fails", []string{"Excel", "Photoshop"}, false},
		{"one of five passes at threshold", []string{"python"}, true},
		{"case insensitive match", []string{"PYTHON", "kubernetes"}, true},
		{"empty skills fails", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := baseParsed()
			parsed.Skills = tt.skills

			results, err := Evaluate(parsed, baseJob())
			require.NoError(t, err)
			assert.Equal(t, tt.wantPass, results[CheckSkills].Pass, results[CheckSkills].Reason)
		})
	}
}

func TestSkillsCheckNoRequirements(t *testing.T) {
	job := baseJob()
	job.Requirements = ""

	results, err := Evaluate(baseParsed(), job)
	require.NoError(t, err)
	assert.True(t, results[CheckSkills].Pass)
}

func TestEducationCheck(t *testing.T) {
	tests := []struct {
		name     string
		minLevel string
		degrees  []string
		wantPass bool
	}{
		{"no requirement always passes", "", nil, true},
		{"bachelor satisfies bachelor", "bachelor", []string{"Bachelor of Science"}, true},
		{"master satisfies bachelor", "bachelor", []string{"Master of Science"}, true},
		{"associate fails bachelor", "bachelor", []string{"Associate Degree"}, false},
		{"phd satisfies master", "master", []string{"PhD in Statistics"}, true},
		{"no education fails requirement", "bachelor", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := baseParsed()
			parsed.Education = nil
			for _, d := range tt.degrees {
				parsed.Education = append(parsed.Education, types.EducationEntry{Degree: d, Institution: "U"})
			}

			job := baseJob()
			job.MinEducation = tt.minLevel

			results, err := Evaluate(parsed, job)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPass, results[CheckEducation].Pass, results[CheckEducation].Reason)
		})
	}
}

func TestOverallCountsChecks(t *testing.T) {
	results, err := Evaluate(baseParsed(), baseJob())
	require.NoError(t, err)
	assert.Contains(t, results[CheckOverall].Reason, "4/4 checks passed")
}
