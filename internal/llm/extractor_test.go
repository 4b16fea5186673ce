package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(JobDescriptionSchema(), "Senior Go Engineer at Acme")

	assert.True(t, strings.HasPrefix(prompt, "You are an expert HR assistant."))
	assert.Contains(t, prompt, "Job Description:\n\"\"\"\nSenior Go Engineer at Acme\n\"\"\"")
	assert.Contains(t, prompt, `"job_title": "string" (required) // exact job title,`)
	assert.Contains(t, prompt, `"salary_range": "string" // salary if mentioned`+"\n}")
	assert.Contains(t, prompt, "- List responsibilities separately\n")
	assert.True(t, strings.HasSuffix(prompt, "Return ONLY the JSON, no additional text.\n"))
}

func TestSchemas_FieldNames(t *testing.T) {
	assert.Equal(t, []string{
		"job_title", "company_name", "required_skills", "experience_required", "education_required",
		"job_description", "responsibilities", "nice_to_have_skills", "location", "salary_range",
	}, JobDescriptionSchema().FieldNames())

	assert.Equal(t, []string{
		"candidate_name", "email", "phone", "skills", "total_experience",
		"work_experience", "education", "certifications", "summary",
	}, ResumeSchema().FieldNames())
}

func TestBuildExtractionPrompt_DefaultLabel(t *testing.T) {
	prompt := BuildExtractionPrompt(ExtractionSchema{Description: "Extract."}, "text")
	assert.Contains(t, prompt, "Input text:\n")
}
