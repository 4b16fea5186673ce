package schemas

import (
	"errors"
	"testing"

	"github.com/jonathan/recruitment-manager/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFields_JobDescription(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name: "complete record",
			json: `{"job_title": "Go Engineer", "company_name": "Acme", "required_skills": ["Go", "SQL"],
				"experience_required": "3-5 years", "education_required": null, "job_description": "Build APIs",
				"responsibilities": ["Ship"], "nice_to_have_skills": [], "location": "Remote", "salary_range": null}`,
		},
		{
			name: "sparse record",
			json: `{"job_title": "Go Engineer"}`,
		},
		{
			name:    "skills as string",
			json:    `{"required_skills": "Go, SQL"}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			json:    `["Go"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFields(types.KindJobDescription, tt.json)
			if tt.wantErr {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.NotEmpty(t, vErr.Errors)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateFields_Resume(t *testing.T) {
	valid := `{"candidate_name": "Ada", "skills": ["Go"],
		"work_experience": [{"company": "Acme", "position": "Dev", "duration": "2020 - 2024", "responsibilities": ["APIs"]}],
		"education": [{"degree": "BSc", "institution": "MIT", "year": "2019"}]}`
	assert.NoError(t, ValidateFields(types.KindResume, valid))

	badEducation := `{"education": [{"degree": "BSc", "year": 2019}]}`
	err := ValidateFields(types.KindResume, badEducation)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "education.0.year", vErr.Errors[0].Field)
}

func TestValidateFields_UnknownKind(t *testing.T) {
	err := ValidateFields("memo", `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateFields_MalformedDocument(t *testing.T) {
	err := ValidateFields(types.KindResume, `{not json`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}
