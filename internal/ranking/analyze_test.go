package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	resume := "Python developer with 5 years of experience. Bachelor of Science. Skills: docker, sql"
	jd := "Looking for Python, Docker, Kubernetes and SQL"

	got := Analyze(resume, jd, 70)

	assert.Equal(t, []string{"Python", "Sql", "Docker"}, got.MatchedSkills)
	assert.Equal(t, []string{"Kubernetes"}, got.MissingSkills)
	assert.Equal(t, "5+ years", got.ExperienceYears)
	assert.Equal(t, "Bachelor's Degree", got.Education)
	assert.Equal(t, []string{
		"Proficient in Python, Sql, Docker",
		"Relevant education: Bachelor's Degree",
	}, got.Strengths)
	assert.Equal(t, []string{"Limited experience with Kubernetes"}, got.Weaknesses)
	assert.Equal(t, "Good Fit - Recommended for Interview", got.Recommendation)
}

func TestAnalyze_EmptyTexts(t *testing.T) {
	got := Analyze("", "", 10)

	assert.Empty(t, got.MatchedSkills)
	assert.NotNil(t, got.MatchedSkills)
	assert.Equal(t, notSpecified, got.ExperienceYears)
	assert.Equal(t, notSpecified, got.Education)
	assert.Equal(t, []string{"Resume submitted for review"}, got.Strengths)
	assert.Equal(t, []string{
		"Overall skill match could be stronger",
		"Experience level not clearly stated",
	}, got.Weaknesses)
	assert.Equal(t, "Weak Match - May Not Meet Requirements", got.Recommendation)
}

func TestAnalyze_NoGaps(t *testing.T) {
	got := Analyze("Experience: 8 years", "", 90)
	assert.Equal(t, []string{"Excellent overall match with job requirements"}, got.Strengths)
	assert.Equal(t, []string{"No significant gaps identified"}, got.Weaknesses)
	assert.Equal(t, "8+ years", got.ExperienceYears)
}

func TestAnalyze_Caps(t *testing.T) {
	jd := "python java react angular vue express django flask spring mongodb redis docker kubernetes aws azure"
	got := Analyze(jd, jd+" terraform jenkins graphql scrum linux rust kotlin", 85)

	assert.Len(t, got.MatchedSkills, 10)
	assert.Contains(t, got.Strengths, "Strong technical skill alignment")
	assert.Len(t, got.MissingSkills, 5)
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"10+ years of experience in backend", "10+ years"},
		{"3 Years Experience", "3+ years"},
		{"Experience: 7 years", "7+ years"},
		{"4 yrs experience", "4+ years"},
		{"worked for years", notSpecified},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, experienceYears(tt.text))
		})
	}
}

func TestEducationLevel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Master of Engineering", "Master's Degree"},
		{"PhD in Physics", "PhD"},
		{"B.Tech Computer Science", "Bachelor's Degree"},
		{"MBA, Finance", "MBA"},
		{"M.Tech", "Master's Degree"},
		{"Bachelor and Master degrees", "Bachelor's Degree"},
		{"Self taught", notSpecified},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, educationLevel(tt.text))
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"python":   "Python",
		"node.js":  "Node.Js",
		"ci/cd":    "Ci/Cd",
		"rest api": "Rest Api",
		"c++":      "C++",
		"c#":       "C#",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleCase(in), in)
	}
}

func TestRecommendation(t *testing.T) {
	assert.Equal(t, "Strong Match - Highly Recommended", Recommendation(80))
	assert.Equal(t, "Good Fit - Recommended for Interview", Recommendation(65))
	assert.Equal(t, "Moderate Match - Consider for Review", Recommendation(50))
	assert.Equal(t, "Weak Match - May Not Meet Requirements", Recommendation(49.99))
}

func TestErrorAnalysis(t *testing.T) {
	got := ErrorAnalysis()
	assert.Equal(t, "Error - Review Manually", got.Recommendation)
	assert.Equal(t, []string{"Error processing resume"}, got.Strengths)
	assert.Equal(t, []string{"Could not analyze resume"}, got.Weaknesses)
}
