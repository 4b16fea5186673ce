package extraction

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	emptyParagraph = regexp.MustCompile(`<w:p(\s[^>]*)?/>`)
	textRun        = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>|<w:tab/>|<w:br/>`)
)

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer r.Close()

	return paragraphsText(r.Editable().GetContent()), nil
}

// paragraphsText returns the text of each <w:p> in word/document.xml, one per line.
func paragraphsText(documentXML string) string {
	documentXML = emptyParagraph.ReplaceAllString(documentXML, "<w:p></w:p>")

	chunks := strings.Split(documentXML, "</w:p>")
	// the chunk after the last paragraph is section properties, not text
	chunks = chunks[:len(chunks)-1]

	paragraphs := make([]string, len(chunks))
	for i, chunk := range chunks {
		paragraphs[i] = runsText(chunk)
	}
	return strings.Join(paragraphs, "\n")
}

func runsText(chunk string) string {
	var sb strings.Builder
	for _, m := range textRun.FindAllStringSubmatch(chunk, -1) {
		switch {
		case strings.HasPrefix(m[0], "<w:tab"):
			sb.WriteByte('\t')
		case strings.HasPrefix(m[0], "<w:br"):
			sb.WriteByte('\n')
		default:
			sb.WriteString(html.UnescapeString(m[1]))
		}
	}
	return sb.String()
}
