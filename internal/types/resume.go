package types

// EducationEntry is one education record extracted from a resume.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Field       string `json:"field"`
	GPA         string `json:"gpa,omitempty"`
	Year        string `json:"year,omitempty"`
}

// WorkEntry is one position extracted from a resume's work history.
type WorkEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// ParsedResume is the schema-validated structured extraction of a resume.
// The parser extracts only what is present in the text; absent values stay
// nil or empty rather than being guessed.
type ParsedResume struct {
	FirstName            string           `json:"first_name"`
	LastName             string           `json:"last_name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	Age                  *int             `json:"age"`
	ExperienceYears      *float64         `json:"experience_years"`
	CurrentTitle         string           `json:"current_title"`
	Skills               []string         `json:"skills"`
	Education            []EducationEntry `json:"education"`
	WorkExperience       []WorkEntry      `json:"work_experience"`
	Certifications       []string         `json:"certifications"`
	Languages            []string         `json:"languages"`
	CareerGaps           []string         `json:"career_gaps"`
	ManagementExperience bool             `json:"management_experience"`
	TeamSizeManaged      *int             `json:"team_size_managed"`
	NotableAchievements  []string         `json:"notable_achievements"`
	Summary              string           `json:"summary"`
}
