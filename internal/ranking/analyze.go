package ranking

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/recruitment-manager/internal/types"
)

const (
	maxMatchedSkills = 10
	maxMissingSkills = 5
	notSpecified     = "Not specified"
)

// commonSkills is matched by plain substring against the lowercased texts, in this order.
var commonSkills = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"node.js", "nodejs", "express", "django", "flask", "spring", "sql",
	"mongodb", "postgresql", "mysql", "redis", "docker", "kubernetes",
	"aws", "azure", "gcp", "git", "ci/cd", "jenkins", "terraform",
	"machine learning", "ml", "ai", "data science", "deep learning",
	"html", "css", "rest api", "graphql", "microservices", "agile",
	"scrum", "jira", "linux", "bash", "powershell", "c++", "c#",
	"go", "rust", "php", "ruby", "rails", "scala", "kotlin", "swift",
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(?i)experience[:\s]+(\d+)\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*yrs?\s+(?:of\s+)?experience`),
}

// educationKeywords are checked in order; the first present decides the level.
var educationKeywords = []struct {
	keyword string
	level   string
}{
	{"bachelor", "Bachelor's Degree"},
	{"master", "Master's Degree"},
	{"phd", "PhD"},
	{"b.tech", "Bachelor's Degree"},
	{"m.tech", "Master's Degree"},
	{"mba", "MBA"},
	{"b.s", "Bachelor's Degree"},
	{"m.s", "Master's Degree"},
}

// Analyze derives the rule-based breakdown of a resume against a job description.
func Analyze(resumeText, jdText string, score float64) *types.Analysis {
	matched, missing := matchSkills(resumeText, jdText)
	years := experienceYears(resumeText)
	education := educationLevel(resumeText)

	var strengths []string
	if len(matched) > 5 {
		strengths = append(strengths, "Strong technical skill alignment")
	}
	if len(matched) > 0 {
		strengths = append(strengths, "Proficient in "+strings.Join(head(matched, 3), ", "))
	}
	if score > 75 {
		strengths = append(strengths, "Excellent overall match with job requirements")
	}
	if lower := strings.ToLower(education); strings.Contains(lower, "bachelor") || strings.Contains(lower, "master") {
		strengths = append(strengths, "Relevant education: "+education)
	}

	var weaknesses []string
	if len(missing) > 0 {
		weaknesses = append(weaknesses, "Limited experience with "+strings.Join(head(missing, 2), ", "))
	}
	if score < 60 {
		weaknesses = append(weaknesses, "Overall skill match could be stronger")
	}
	if years == notSpecified {
		weaknesses = append(weaknesses, "Experience level not clearly stated")
	}

	if len(strengths) == 0 {
		strengths = []string{"Resume submitted for review"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"No significant gaps identified"}
	}

	return &types.Analysis{
		MatchedSkills:   matched,
		MissingSkills:   missing,
		ExperienceYears: years,
		Education:       education,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendation:  Recommendation(score),
	}
}

// ErrorAnalysis is attached to results whose file could not be processed.
func ErrorAnalysis() *types.Analysis {
	return &types.Analysis{
		MatchedSkills:   []string{},
		MissingSkills:   []string{},
		ExperienceYears: notSpecified,
		Education:       notSpecified,
		Strengths:       []string{"Error processing resume"},
		Weaknesses:      []string{"Could not analyze resume"},
		Recommendation:  "Error - Review Manually",
	}
}

// Recommendation maps a match score to its band label
func Recommendation(score float64) string {
	switch {
	case score >= 80:
		return "Strong Match - Highly Recommended"
	case score >= 65:
		return "Good Fit - Recommended for Interview"
	case score >= 50:
		return "Moderate Match - Consider for Review"
	default:
		return "Weak Match - May Not Meet Requirements"
	}
}

func matchSkills(resumeText, jdText string) (matched, missing []string) {
	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jdText)

	matched, missing = []string{}, []string{}
	for _, skill := range commonSkills {
		if !strings.Contains(jdLower, skill) {
			continue
		}
		if strings.Contains(resumeLower, skill) {
			matched = append(matched, titleCase(skill))
		} else {
			missing = append(missing, titleCase(skill))
		}
	}
	return head(matched, maxMatchedSkills), head(missing, maxMissingSkills)
}

func experienceYears(resumeText string) string {
	for _, p := range experiencePatterns {
		if m := p.FindStringSubmatch(resumeText); m != nil {
			return m[1] + "+ years"
		}
	}
	return notSpecified
}

func educationLevel(resumeText string) string {
	lower := strings.ToLower(resumeText)
	for _, e := range educationKeywords {
		if strings.Contains(lower, e.keyword) {
			return e.level
		}
	}
	return notSpecified
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases
// the rest, so "node.js" becomes "Node.Js" and "ci/cd" becomes "Ci/Cd".
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
