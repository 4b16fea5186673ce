// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

// A fenced block, as accepted by UnwrapFencedCode:
//
//	block   = ws* open body close? ws*
//	open    = "```" "`"*            (three or more backticks)
//	info    = lang ws* "\n"         (optional, first line only)
//	lang    = [A-Za-z0-9_+.#-]*
//	close   = "```" "`"*            (at the very end of the trimmed text)
//
// On a single-line block the language tag is recognized when it is followed by
// whitespace or by the first character of a JSON value.
var (
	infoLinePattern   = regexp.MustCompile(`^[A-Za-z0-9_+.#-]*$`)
	inlineLangPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_+.#-]*)(\s+|[{\[])`)
)

// UnwrapFencedCode returns the body of a Markdown fenced code block. ok is false
// when text does not start with a fence, in which case the trimmed text is returned.
// A missing closing fence is tolerated; the body then runs to the end of text.
func UnwrapFencedCode(text string) (body string, ok bool) {
	s := strings.TrimSpace(text)

	open := countRun(s, '`')
	if open < 3 {
		return s, false
	}
	s = s[open:]

	if close := countTrailingRun(s, '`'); close >= 3 {
		s = s[:len(s)-close]
	}

	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		info := strings.TrimSpace(s[:idx])
		if infoLinePattern.MatchString(info) {
			s = s[idx+1:]
		}
	} else if m := inlineLangPattern.FindStringSubmatchIndex(s); m != nil {
		// strip the tag, keep a JSON opener if it was the delimiter
		s = s[m[3]:]
		s = strings.TrimLeft(s, " \t")
	}

	return strings.TrimSpace(s), true
}

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	body, _ := UnwrapFencedCode(text)
	return body
}

func countRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func countTrailingRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == c {
		n++
	}
	return n
}
