package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\x{00A0}]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	bulletGlyph = regexp.MustCompile(`^[•·▪●◦‣∙]\s*`)
)

// CleanText normalizes extracted document text before it is sent to the model.
// Line breaks are kept, runs of spaces collapse to one, bullet glyphs become
// "- ", control characters are dropped and blank lines are capped at one.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	if loc := bulletGlyph.FindStringIndex(line); loc != nil {
		return "- " + line[loc[1]:]
	}
	return line
}
