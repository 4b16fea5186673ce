package parsing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func TestExtractFields_Resume(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"candidate_name": "Jane Doe",
		"email": "jane@example.com",
		"phone": null,
		"skills": ["golang", "SQL", "Go"],
		"total_experience": "6 years",
		"work_experience": [{"company": "Acme", "position": "Engineer", "duration": "2019 - 2025", "responsibilities": ["APIs"]}],
		"education": [{"degree": "BSc Computer Science", "institution": "State University", "year": "2018"}],
		"certifications": [],
		"summary": "Backend engineer"
	}` + "\n```"}

	extractor := NewExtractor(client, nil)
	fields, err := extractor.ExtractFields(context.Background(), "Jane Doe\nGo, SQL", types.KindResume)
	require.NoError(t, err)

	resume, ok := fields.(*types.ResumeFields)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", resume.CandidateName)
	assert.Equal(t, "", resume.Phone)
	assert.Equal(t, []string{"Go", "SQL"}, resume.Skills)
	require.Len(t, resume.WorkExperience, 1)
	assert.Equal(t, "Acme", resume.WorkExperience[0].Company)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Jane Doe\nGo, SQL")
	assert.Contains(t, client.prompts[0], `"candidate_name"`)
}

func TestExtractFields_JobDescription(t *testing.T) {
	client := &fakeClient{response: `{"job_title": "Backend Engineer", "required_skills": ["Go", "Kubernetes"], "location": "Remote"}`}

	fields, err := NewExtractor(client, nil).ExtractFields(context.Background(), "We are hiring", types.KindJobDescription)
	require.NoError(t, err)

	jd := fields.(*types.JobDescriptionFields)
	assert.Equal(t, "Backend Engineer", jd.JobTitle)
	assert.Equal(t, []string{"Go", "Kubernetes"}, jd.RequiredSkills)
	assert.Contains(t, client.prompts[0], `"job_title"`)
}

func TestExtractFields_Errors(t *testing.T) {
	tests := []struct {
		name      string
		client    *fakeClient
		kind      types.DocumentKind
		checkType func(t *testing.T, err error)
	}{
		{
			name:   "upstream failure",
			client: &fakeClient{err: errors.New("connection refused")},
			kind:   types.KindResume,
			checkType: func(t *testing.T, err error) {
				var upErr *UpstreamUnavailableError
				assert.True(t, errors.As(err, &upErr))
				assert.Contains(t, err.Error(), "connection refused")
			},
		},
		{
			name:   "prose reply",
			client: &fakeClient{response: "Sure! Here is the candidate's information."},
			kind:   types.KindResume,
			checkType: func(t *testing.T, err error) {
				var parseErr *ExtractionParseError
				require.True(t, errors.As(err, &parseErr))
				assert.Equal(t, types.KindResume, parseErr.Kind)
			},
		},
		{
			name:   "truncated fenced JSON",
			client: &fakeClient{response: "```json\n{\"job_title\": \"Eng\"\n```"},
			kind:   types.KindJobDescription,
			checkType: func(t *testing.T, err error) {
				var parseErr *ExtractionParseError
				assert.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name:   "wrong field type",
			client: &fakeClient{response: `{"skills": "Go, SQL"}`},
			kind:   types.KindResume,
			checkType: func(t *testing.T, err error) {
				var parseErr *ExtractionParseError
				require.True(t, errors.As(err, &parseErr))
				assert.True(t, strings.Contains(err.Error(), "schema"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(tt.client, nil).ExtractFields(context.Background(), "text", tt.kind)
			require.Error(t, err)
			tt.checkType(t, err)
		})
	}
}

func TestExtractFields_UnknownKind(t *testing.T) {
	client := &fakeClient{response: `{}`}
	_, err := NewExtractor(client, nil).ExtractFields(context.Background(), "text", types.DocumentKind("memo"))
	assert.Error(t, err)
	assert.Empty(t, client.prompts)
}
