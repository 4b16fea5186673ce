// Package extraction turns PDF, DOCX and plain-text files into plain text.
//
// Extraction is best effort: a PDF page or DOCX paragraph that yields no text
// contributes an empty line instead of failing the document. Pages and
// paragraphs are joined with newlines in document order.
package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DocType is the declared format of an input file
type DocType string

const (
	TypePDF  DocType = "pdf"
	TypeDOCX DocType = "docx"
	TypeText DocType = "txt"
)

var extensionTypes = map[string]DocType{
	".pdf":  TypePDF,
	".docx": TypeDOCX,
	".txt":  TypeText,
}

// UnsupportedFormatError is returned for file types that have no extractor.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file format: %s has no extension", e.Path)
	}
	return fmt.Sprintf("unsupported file format %q: %s", e.Extension, e.Path)
}

// SupportedExtensions returns the accepted file extensions, with the leading dot.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt"}
}

// DocTypeFromPath maps a file extension (case-insensitive) to a DocType.
func DocTypeFromPath(path string) (DocType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t, nil
	}
	return "", &UnsupportedFormatError{Path: path, Extension: ext}
}

// IsSupported reports whether the file name has a supported extension.
func IsSupported(name string) bool {
	_, err := DocTypeFromPath(name)
	return err == nil
}

// ExtractFile extracts text, inferring the type from the extension.
func ExtractFile(path string) (string, error) {
	docType, err := DocTypeFromPath(path)
	if err != nil {
		return "", err
	}
	return Extract(path, docType)
}

// Extract returns the text content of the file at path, read as docType.
func Extract(path string, docType DocType) (string, error) {
	switch docType {
	case TypePDF:
		return extractPDF(path)
	case TypeDOCX:
		return extractDOCX(path)
	case TypeText:
		return extractText(path)
	default:
		return "", &UnsupportedFormatError{Path: path, Extension: string(docType)}
	}
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), ""), nil
	}
	return string(data), nil
}
