package schemas

// ParsedResume is the schema for the resume parser agent's output. The
// parser extracts only what is present; nullable fields stay null rather
// than being guessed.
const ParsedResume = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["first_name", "last_name", "skills", "education", "work_experience", "summary"],
  "properties": {
    "first_name": {"type": "string"},
    "last_name": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "age": {"type": ["integer", "null"], "minimum": 0},
    "experience_years": {"type": ["number", "null"], "minimum": 0},
    "current_title": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["degree", "institution"],
        "properties": {
          "degree": {"type": "string"},
          "institution": {"type": "string"},
          "field": {"type": "string"},
          "gpa": {"type": ["string", "null"]},
          "year": {"type": ["string", "null"]}
        }
      }
    },
    "work_experience": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "company"],
        "properties": {
          "title": {"type": "string"},
          "company": {"type": "string"},
          "duration": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "certifications": {"type": "array", "items": {"type": "string"}},
    "languages": {"type": "array", "items": {"type": "string"}},
    "career_gaps": {"type": "array", "items": {"type": "string"}},
    "management_experience": {"type": "boolean"},
    "team_size_managed": {"type": ["integer", "null"], "minimum": 0},
    "notable_achievements": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"}
  }
}`

// ScorerPayload is the schema for the scorer agent's raw model output:
// per-component values in [0,1] plus auxiliary notes. The weighted overall
// score is computed in Go, never requested from the model.
const ScorerPayload = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["components"],
  "properties": {
    "components": {
      "type": "object",
      "additionalProperties": {"type": "number"}
    },
    "notes": {
      "type": "object",
      "properties": {
        "found_gpa": {"type": "string"},
        "accommodation_present": {"type": "boolean"},
        "visa_mention": {"type": "boolean"}
      }
    }
  }
}`

// SummaryPayload is the schema for the summary agent's model output.
const SummaryPayload = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pros", "cons", "suggested_action", "detailed_reasoning"],
  "properties": {
    "pros": {"type": "array", "items": {"type": "string"}},
    "cons": {"type": "array", "items": {"type": "string"}},
    "suggested_action": {
      "type": "string",
      "enum": ["Accept", "Reject", "Further Evaluation"]
    },
    "detailed_reasoning": {"type": "string"},
    "risk_factors": {"type": "array", "items": {"type": "string"}},
    "interview_recommendations": {"type": "array", "items": {"type": "string"}},
    "overall_assessment": {"type": "string"}
  }
}`
