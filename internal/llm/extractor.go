// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name         string        // Schema name (e.g., "JobDescription", "Resume")
	Description  string        // System prompt preamble describing the extraction task
	InputLabel   string        // Heading placed above the input text
	Fields       []SchemaField // Expected output fields
	Instructions []string      // Extra rules appended after the structure
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: `"string"`, `["string"]`, or a JSON example
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// FieldNames returns the JSON names of the schema fields in order.
func (s ExtractionSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	label := schema.InputLabel
	if label == "" {
		label = "Input text"
	}
	sb.WriteString(label)
	sb.WriteString(":\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n\n")

	sb.WriteString("Extract and return ONLY a valid JSON object with the following structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("Important:\n")
	for _, rule := range schema.Instructions {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteString("\n")
	}
	sb.WriteString("- Use null or an empty list for anything not present in the text.\n")
	sb.WriteString("- Return ONLY the JSON, no additional text.\n")

	return sb.String()
}

// --- Predefined Schemas ---

// JobDescriptionSchema returns the extraction schema for job descriptions.
func JobDescriptionSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobDescription",
		Description: "You are an expert HR assistant. Extract structured information from the following Job Description.",
		InputLabel:  "Job Description",
		Fields: []SchemaField{
			{Name: "job_title", Type: `"string"`, Description: "exact job title", Required: true},
			{Name: "company_name", Type: `"string"`, Description: "company name if mentioned"},
			{Name: "required_skills", Type: `["string"]`, Description: "every required skill, technical and soft"},
			{Name: "experience_required", Type: `"string"`, Description: "X years or X-Y years"},
			{Name: "education_required", Type: `"string"`, Description: "degree requirements"},
			{Name: "job_description", Type: `"string"`, Description: "brief summary of the role"},
			{Name: "responsibilities", Type: `["string"]`, Description: "one entry per responsibility"},
			{Name: "nice_to_have_skills", Type: `["string"]`},
			{Name: "location", Type: `"string"`, Description: "job location"},
			{Name: "salary_range", Type: `"string"`, Description: "salary if mentioned"},
		},
		Instructions: []string{
			"Extract all skills mentioned (technical and soft skills)",
			"Be specific with experience requirements",
			"List responsibilities separately",
		},
	}
}

// ResumeSchema returns the extraction schema for candidate resumes.
func ResumeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "Resume",
		Description: "You are an expert HR assistant. Extract structured information from the following Resume.",
		InputLabel:  "Resume",
		Fields: []SchemaField{
			{Name: "candidate_name", Type: `"string"`, Description: "full name", Required: true},
			{Name: "email", Type: `"string"`},
			{Name: "phone", Type: `"string"`},
			{Name: "skills", Type: `["string"]`},
			{Name: "total_experience", Type: `"string"`, Description: "X years"},
			{
				Name:        "work_experience",
				Type:        `[{"company": "string", "position": "string", "duration": "start - end", "responsibilities": ["string"]}]`,
				Description: "reverse chronological order",
			},
			{Name: "education", Type: `[{"degree": "string", "institution": "string", "year": "string"}]`},
			{Name: "certifications", Type: `["string"]`},
			{Name: "summary", Type: `"string"`, Description: "brief professional summary"},
		},
		Instructions: []string{
			"Extract ALL skills mentioned",
			"Calculate total experience from work history",
			"List all jobs in reverse chronological order",
		},
	}
}
