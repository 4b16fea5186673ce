package extraction

import (
	"fmt"
	"os"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// SetPDFLicense installs a unidoc metered license key. An empty key is ignored.
func SetPDFLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set PDF license: %w", err)
	}
	return nil
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	encrypted, err := pdfReader.IsEncrypted()
	if err != nil {
		return "", fmt.Errorf("failed to inspect PDF encryption: %w", err)
	}
	if encrypted {
		// most resumes are "encrypted" only to block editing; try the empty user password
		if ok, err := pdfReader.Decrypt([]byte("")); err != nil || !ok {
			return "", fmt.Errorf("PDF is password protected")
		}
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}

	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		pages[i-1] = pageText(pdfReader, i)
	}

	return strings.Join(pages, "\n"), nil
}

// pageText returns the text of page n, or "" if the page cannot be read.
func pageText(r *model.PdfReader, n int) string {
	page, err := r.GetPage(n)
	if err != nil {
		return ""
	}

	ex, err := extractor.New(page)
	if err != nil {
		return ""
	}

	text, err := ex.ExtractText()
	if err != nil {
		return ""
	}
	return text
}
