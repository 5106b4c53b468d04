// Package parsing extracts structured candidate data from raw resume text
// using LLM extraction, validated against a fixed schema.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/llm"
	"github.com/fairhire/fairhire/internal/schemas"
	"github.com/fairhire/fairhire/internal/types"
)

const parserPrompt = `You are an expert resume parser. Extract structured information from the resume text.
Your response must be STRICT JSON matching this schema:
{
    "first_name": "string",
    "last_name": "string",
    "email": "string or empty",
    "phone": "string or empty",
    "age": null or integer,
    "experience_years": float (total years of professional experience),
    "current_title": "string",
    "skills": ["skill1", "skill2", ...],
    "education": [
        {
            "degree": "string",
            "institution": "string",
            "field": "string",
            "gpa": "string or null",
            "year": "string or null"
        }
    ],
    "work_experience": [
        {
            "title": "string",
            "company": "string",
            "duration": "string",
            "description": "string"
        }
    ],
    "certifications": ["cert1", ...],
    "languages": ["lang1", ...],
    "career_gaps": ["gap description if any"],
    "management_experience": boolean,
    "team_size_managed": integer or null,
    "notable_achievements": ["achievement1", ...],
    "summary": "2-3 sentence professional summary"
}

Rules:
- Extract ONLY what is present in the resume. Do NOT fabricate data.
- If age is not explicitly stated, set it to null.
- Estimate experience_years from work history dates if not explicit.
- Output STRICT JSON. No extra text.`

// Result bundles the parsed resume with ledger bookkeeping data.
type Result struct {
	Parsed *types.ParsedResume
	Usage  llm.Usage
	Raw    string
}

// ParseResume extracts structured data from raw resume text. The model
// output is validated against the parser schema before it is trusted;
// schema violations and malformed JSON surface as ParseError so the retry
// policy applies.
func ParseResume(ctx context.Context, client llm.Client, resumeText string) (*Result, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &agents.ValidationError{Message: "no resume text available for parsing"}
	}

	prompt := parserPrompt + "\n\nParse the following resume:\n\n" + resumeText

	raw, usage, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &agents.ExternalServiceError{Message: "parser model call failed", Cause: err}
	}

	if err := schemas.ValidateJSONString(schemas.ParsedResume, raw); err != nil {
		return nil, &agents.ParseError{Message: "parser response failed schema validation", Cause: err}
	}

	var parsed types.ParsedResume
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &agents.ParseError{Message: "failed to decode parser response", Cause: err}
	}

	parsed.Skills = NormalizeSkills(parsed.Skills)

	return &Result{Parsed: &parsed, Usage: usage, Raw: raw}, nil
}
