package types

// SimilarityResult is the ranking of one candidate document against a job description.
// It is computed per request and never persisted.
type SimilarityResult struct {
	Resume   string    `json:"resume"`
	Score    float64   `json:"score"`
	Error    string    `json:"error,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Analysis is the rule-based breakdown attached to a SimilarityResult.
type Analysis struct {
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	ExperienceYears string   `json:"experience_years"`
	Education       string   `json:"education"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendation  string   `json:"recommendation"`
}
