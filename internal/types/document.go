// Package types provides type definitions for structured data used throughout the recruitment manager.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DocumentKind selects which schema a document is parsed against.
// Every ingestion, parsing and persistence operation is parameterized by it.
type DocumentKind string

const (
	// KindJobDescription is a job posting
	KindJobDescription DocumentKind = "job_description"
	// KindResume is a candidate resume
	KindResume DocumentKind = "resume"
)

// AllKinds lists the supported document kinds
var AllKinds = []DocumentKind{KindJobDescription, KindResume}

// ParseDocumentKind accepts the canonical names plus the short "jd" alias.
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jd", "job_description", "job-description":
		return KindJobDescription, nil
	case "resume", "resumes", "cv":
		return KindResume, nil
	default:
		return "", fmt.Errorf("unknown document kind %q (expected jd or resume)", s)
	}
}

// Valid reports whether k is a known kind
func (k DocumentKind) Valid() bool {
	return k == KindJobDescription || k == KindResume
}

// Label is the human readable name used in logs and CLI output
func (k DocumentKind) Label() string {
	if k == KindJobDescription {
		return "JD"
	}
	return "Resume"
}

// tablePrefix is shared by the raw and parsed tables of a kind
func (k DocumentKind) tablePrefix() string {
	if k == KindJobDescription {
		return "jd"
	}
	return "resume"
}

// RawTable returns the table holding raw file metadata
func (k DocumentKind) RawTable() string { return k.tablePrefix() + "_raw" }

// ParsedTable returns the table holding parsed records
func (k DocumentKind) ParsedTable() string { return k.tablePrefix() + "_parsed" }

// RawForeignKey returns the column in ParsedTable referencing RawTable
func (k DocumentKind) RawForeignKey() string { return k.tablePrefix() + "_raw_id" }

// StorageSubdir is the directory under the uploads root for this kind
func (k DocumentKind) StorageSubdir() string {
	if k == KindJobDescription {
		return "jd"
	}
	return "resumes"
}

// RawStatus is the lifecycle state of a RawDocument
type RawStatus string

const (
	StatusPending RawStatus = "pending"
	StatusParsed  RawStatus = "parsed"
	StatusError   RawStatus = "error"
)

// RawDocument is one ingested file.
type RawDocument struct {
	ID           int64        `json:"id"`
	Kind         DocumentKind `json:"kind"`
	Filename     string       `json:"filename"`
	SourcePath   string       `json:"source_path"`
	UploadedAt   time.Time    `json:"upload_date"`
	Status       RawStatus    `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// ParsedDocument is the structured output of a successful parse. Created once, never updated.
type ParsedDocument struct {
	ID       int64        `json:"id"`
	RawID    int64        `json:"raw_id"`
	Kind     DocumentKind `json:"kind"`
	Fields   ParsedFields `json:"fields"`
	ParsedAt time.Time    `json:"parsed_date"`
}

// Column is a named column value for a parsed-table insert.
type Column struct {
	Name  string
	Value any
}

// ParsedFields is implemented by the per-kind structured records.
type ParsedFields interface {
	Kind() DocumentKind
	// Columns returns the denormalized columns stored next to the full JSON record.
	Columns() []Column
}

// NewFields returns an empty record for kind, ready to be decoded into.
func NewFields(kind DocumentKind) (ParsedFields, error) {
	switch kind {
	case KindJobDescription:
		return &JobDescriptionFields{}, nil
	case KindResume:
		return &ResumeFields{}, nil
	default:
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
}

// DecodeFields decodes a full_parsed_json payload into the record type for kind.
func DecodeFields(kind DocumentKind, data []byte) (ParsedFields, error) {
	fields, err := NewFields(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, fields); err != nil {
		return nil, fmt.Errorf("failed to decode %s fields: %w", kind, err)
	}
	return fields, nil
}

// jsonList encodes a string list column the way it is stored (a JSON array, "[]" when empty).
func jsonList[T any](values []T) string {
	if len(values) == 0 {
		return "[]"
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(b)
}
