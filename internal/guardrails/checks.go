// Package guardrails evaluates candidates against mandatory hiring policies.
// All checks are deterministic rule evaluations over parsed resume data; no
// model calls are made, so there are no retry semantics.
package guardrails

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/types"
)

// Check names, stable keys of the guardrail results map.
const (
	CheckExperience = "experience_check"
	CheckSkills     = "skills_check"
	CheckEducation  = "education_check"
	CheckAge        = "age_check"
	CheckOverall    = "overall"
)

// minSkillMatchRatio is the fraction of required skills a candidate must
// match to pass the skills check.
const minSkillMatchRatio = 0.2

// defaultMinAge applies when the job policy does not set a minimum age.
const defaultMinAge = 18

// degreeRank orders education levels for the minimum-education check.
var degreeRank = map[string]int{
	"high school": 1,
	"associate":   2,
	"bachelor":    3,
	"master":      4,
	"phd":         5,
}

// Evaluate runs all guardrail checks for a parsed candidate against the job
// policy. It returns the per-check results plus an "overall" entry whose
// Pass is the logical AND of every non-skipped check.
func Evaluate(parsed *types.ParsedResume, job *types.JobPosition) (map[string]types.CheckResult, error) {
	if job == nil {
		return nil, &agents.ConfigError{Message: "job position policy is required for guardrail checks"}
	}
	if parsed == nil {
		return nil, &agents.ValidationError{Message: "parsed resume data is required for guardrail checks"}
	}

	minAge := job.MinAge
	if minAge == 0 {
		minAge = defaultMinAge
	}

	results := map[string]types.CheckResult{
		CheckExperience: checkExperience(parsed.ExperienceYears, job.MinExperienceYears),
		CheckSkills:     checkRequiredSkills(parsed.Skills, job.RequiredSkills()),
		CheckEducation:  checkEducation(parsed.Education, job.MinEducation),
		CheckAge:        checkAge(parsed.Age, minAge),
	}

	passed := 0
	total := 0
	allPassed := true
	for _, r := range results {
		total++
		if r.Pass {
			passed++
		}
		if !r.Pass && !r.Skipped {
			allPassed = false
		}
	}

	results[CheckOverall] = types.CheckResult{
		Pass:   allPassed,
		Reason: fmt.Sprintf("%d/%d checks passed", passed, total),
	}

	return results, nil
}

// Passed reports the overall verdict from a guardrail results map.
func Passed(results map[string]types.CheckResult) bool {
	overall, ok := results[CheckOverall]
	return ok && overall.Pass
}

func checkExperience(experienceYears *float64, minRequired int) types.CheckResult {
	if experienceYears == nil {
		return types.CheckResult{
			Pass:   false,
			Reason: "Experience years not available in resume",
		}
	}
	if *experienceYears < float64(minRequired) {
		return types.CheckResult{
			Pass: false,
			Reason: fmt.Sprintf("Candidate has %.1f years of experience, below minimum of %d years required",
				*experienceYears, minRequired),
		}
	}
	return types.CheckResult{
		Pass: true,
		Reason: fmt.Sprintf("Candidate has %.1f years of experience, meets minimum of %d years",
			*experienceYears, minRequired),
	}
}

// checkAge never penalizes missing data: unknown age is skipped, not failed.
func checkAge(age *int, minAge int) types.CheckResult {
	if age == nil {
		return types.CheckResult{
			Pass:    true,
			Skipped: true,
			Reason:  "Age not specified, no age-based restriction applied",
		}
	}
	if *age < minAge {
		return types.CheckResult{
			Pass:   false,
			Reason: fmt.Sprintf("Candidate age (%d) is below minimum working age of %d", *age, minAge),
		}
	}
	return types.CheckResult{
		Pass:   true,
		Reason: fmt.Sprintf("Candidate age (%d) meets minimum working age requirement", *age),
	}
}

func checkRequiredSkills(candidateSkills, requiredKeywords []string) types.CheckResult {
	if len(requiredKeywords) == 0 {
		return types.CheckResult{Pass: true, Reason: "No specific skill requirements defined"}
	}

	candidateSet := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateSet[strings.ToLower(strings.TrimSpace(s))] = true
	}

	requiredSet := make(map[string]bool, len(requiredKeywords))
	for _, s := range requiredKeywords {
		requiredSet[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var matched []string
	for skill := range requiredSet {
		if candidateSet[skill] {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)

	ratio := float64(len(matched)) / float64(len(requiredSet))
	matchedList := "None"
	if len(matched) > 0 {
		matchedList = strings.Join(matched, ", ")
	}

	if ratio < minSkillMatchRatio {
		return types.CheckResult{
			Pass: false,
			Reason: fmt.Sprintf("Only %d/%d required skills matched (%.0f%%). Matched: %s",
				len(matched), len(requiredSet), ratio*100, matchedList),
		}
	}
	return types.CheckResult{
		Pass: true,
		Reason: fmt.Sprintf("%d/%d required skills matched (%.0f%%). Matched: %s",
			len(matched), len(requiredSet), ratio*100, matchedList),
	}
}

func checkEducation(education []types.EducationEntry, minLevel string) types.CheckResult {
	if minLevel == "" {
		if len(education) == 0 {
			return types.CheckResult{Pass: true, Reason: "No education data to validate"}
		}
		return types.CheckResult{Pass: true, Reason: fmt.Sprintf("%d education entries found", len(education))}
	}

	required, ok := degreeRank[normalizeDegreeLevel(minLevel)]
	if !ok {
		return types.CheckResult{Pass: true, Reason: fmt.Sprintf("Unrecognized education requirement %q, not enforced", minLevel)}
	}

	best := 0
	bestDegree := ""
	for _, entry := range education {
		if rank, ok := degreeRank[normalizeDegreeLevel(entry.Degree)]; ok && rank > best {
			best = rank
			bestDegree = entry.Degree
		}
	}

	if best >= required {
		return types.CheckResult{
			Pass:   true,
			Reason: fmt.Sprintf("Highest degree %q meets minimum education level %q", bestDegree, minLevel),
		}
	}
	return types.CheckResult{
		Pass:   false,
		Reason: fmt.Sprintf("No degree at or above required level %q found", minLevel),
	}
}

// normalizeDegreeLevel maps free-form degree strings onto the rank table.
func normalizeDegreeLevel(degree string) string {
	degree = strings.ToLower(strings.TrimSpace(degree))
	switch {
	case strings.Contains(degree, "phd") || strings.Contains(degree, "doctor"):
		return "phd"
	case strings.Contains(degree, "master") || strings.HasPrefix(degree, "ms") || strings.HasPrefix(degree, "m.s"):
		return "master"
	case strings.Contains(degree, "bachelor") || strings.HasPrefix(degree, "bs") || strings.HasPrefix(degree, "b.s") || strings.HasPrefix(degree, "ba"):
		return "bachelor"
	case strings.Contains(degree, "associate"):
		return "associate"
	case strings.Contains(degree, "high school") || strings.Contains(degree, "ged"):
		return "high school"
	default:
		return degree
	}
}
