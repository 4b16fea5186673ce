package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recruitment-manager/internal/interview"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// assertBoxed checks every line of the output has the box width
func assertBoxed(t *testing.T, out string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestPrintJobDescription(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobDescription(&types.JobDescriptionFields{
		JobTitle:         "Senior Engineer",
		CompanyName:      "Acme Corp",
		RequiredSkills:   []string{"Go", "Kubernetes", "SQL", "gRPC", "AWS", "Terraform"},
		NiceToHaveSkills: []string{"Rust"},
	})

	out := buf.String()
	assert.Contains(t, out, "PARSED JOB DESCRIPTION")
	assert.Contains(t, out, "Senior Engineer")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "• Go")
	assert.Contains(t, out, "... and 1 more")
	assert.Contains(t, out, "• Rust")
	assert.NotContains(t, out, "Terraform")
	assert.NotContains(t, out, "Location:")
	assertBoxed(t, out)
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsed(&types.ResumeFields{
		CandidateName:   "Jane Doe",
		Email:           "jane@example.com",
		Skills:          []string{"Go", "SQL"},
		TotalExperience: "6 years",
		WorkExperience: []types.WorkExperience{
			{Company: "Acme", Position: "Engineer", Duration: "2019 - 2025"},
		},
		Education: []types.Education{{Degree: "BSc", Institution: "State University"}},
	})

	out := buf.String()
	assert.Contains(t, out, "PARSED RESUME")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "• Engineer at Acme (2019 - 2025)")
	assert.Contains(t, out, "• BSc, State University")
	assertBoxed(t, out)
}

func TestPrintNil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobDescription(nil)
	p.PrintResume(nil)
	p.PrintParsed(nil)
	p.PrintRankings(nil)
	p.PrintInterviewReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRankings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.SimilarityResult{
		{Resume: "jane.pdf", Score: 81.25, Analysis: &types.Analysis{Recommendation: "Strong Match", MatchedSkills: []string{"Go", "SQL"}}},
		{Resume: "bad.pdf", Error: "failed to open PDF"},
	}
	for i := 0; i < 5; i++ {
		results = append(results, types.SimilarityResult{Resume: "extra.pdf"})
	}
	p.PrintRankings(results)

	out := buf.String()
	assert.Contains(t, out, "Total resumes ranked: 7")
	assert.Contains(t, out, "#1  jane.pdf")
	assert.Contains(t, out, "Score: 81.25 (Strong Match)")
	assert.Contains(t, out, "Skills: Go, SQL")
	assert.Contains(t, out, "Error: failed to open PDF")
	assert.Contains(t, out, "... and 2 more")
	assertBoxed(t, out)
}

func TestPrintInterviewReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInterviewReport(&interview.Report{
		CandidateName:     "Ada",
		OverallScore:      77,
		Recommendation:    interview.RecommendGood,
		QuestionsAnswered: 3,
		TotalQuestions:    3,
		Duration:          "12 minutes",
		SkillScores: []interview.SkillScore{
			{Skill: "Go", Score: 8, Percentage: 80},
			{Skill: "SQL", Score: 7.5, Percentage: 75},
		},
		Strengths: []string{"Go"},
	})

	out := buf.String()
	assert.Contains(t, out, "INTERVIEW REPORT")
	assert.Contains(t, out, "77%")
	assert.Contains(t, out, "3 of 3")
	assert.Contains(t, out, "8.0/10")
	assert.Contains(t, out, "7.5/10")
	assert.Contains(t, out, "Strengths:")
	assert.NotContains(t, out, "Weaknesses:")
	assertBoxed(t, out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate(strings.Repeat("é", 20), 10)
	require.Equal(t, 10, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
