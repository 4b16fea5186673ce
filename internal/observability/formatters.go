// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/recruitment-manager/internal/interview"
	"github.com/jonathan/recruitment-manager/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, ending in "..." when cut
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// writeList writes a bulleted list of at most limit items plus an overflow line
func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// writeField writes "label value" when value is set
func writeField(sb *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%-11s %s\n", label+":", value)
	}
}

// PrintParsed outputs a summary of a parsed document of either kind.
func (p *Printer) PrintParsed(fields types.ParsedFields) {
	switch f := fields.(type) {
	case *types.JobDescriptionFields:
		p.PrintJobDescription(f)
	case *types.ResumeFields:
		p.PrintResume(f)
	}
}

// PrintJobDescription outputs a human-readable summary of a parsed job description.
func (p *Printer) PrintJobDescription(jd *types.JobDescriptionFields) {
	if jd == nil {
		return
	}

	var sb strings.Builder
	writeField(&sb, "Title", jd.JobTitle)
	writeField(&sb, "Company", jd.CompanyName)
	writeField(&sb, "Location", jd.Location)
	writeField(&sb, "Experience", jd.ExperienceRequired)
	writeField(&sb, "Education", jd.EducationRequired)
	writeField(&sb, "Salary", jd.SalaryRange)
	sb.WriteString("\n")
	writeList(&sb, "Required Skills", jd.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Nice-to-haves", jd.NiceToHaveSkills, 3)

	p.printBox("PARSED JOB DESCRIPTION", strings.TrimRight(sb.String(), "\n"))
}

// PrintResume outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintResume(cv *types.ResumeFields) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	writeField(&sb, "Candidate", cv.CandidateName)
	writeField(&sb, "Email", cv.Email)
	writeField(&sb, "Phone", cv.Phone)
	writeField(&sb, "Experience", cv.TotalExperience)
	sb.WriteString("\n")
	writeList(&sb, "Skills", cv.Skills, maxItemsToShow)

	positions := make([]string, 0, len(cv.WorkExperience))
	for _, w := range cv.WorkExperience {
		line := strings.TrimSpace(w.Position + " at " + w.Company)
		if w.Duration != "" {
			line += " (" + w.Duration + ")"
		}
		positions = append(positions, line)
	}
	writeList(&sb, "Work Experience", positions, 3)

	degrees := make([]string, 0, len(cv.Education))
	for _, e := range cv.Education {
		degrees = append(degrees, strings.TrimSpace(e.Degree+", "+e.Institution))
	}
	writeList(&sb, "Education", degrees, 3)

	p.printBox("PARSED RESUME", strings.TrimRight(sb.String(), "\n"))
}

// PrintRankings outputs the top ranked resumes with their skill breakdown.
func (p *Printer) PrintRankings(results []types.SimilarityResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total resumes ranked: %d\n\n", len(results))

	count := min(len(results), maxItemsToShow)
	for i, r := range results[:count] {
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, r.Resume)
		fmt.Fprintf(&sb, "    Score: %.2f", r.Score)
		if r.Analysis != nil && r.Analysis.Recommendation != "" {
			fmt.Fprintf(&sb, " (%s)", r.Analysis.Recommendation)
		}
		sb.WriteString("\n")
		if r.Error != "" {
			fmt.Fprintf(&sb, "    Error: %s\n", r.Error)
		} else if r.Analysis != nil && len(r.Analysis.MatchedSkills) > 0 {
			fmt.Fprintf(&sb, "    Skills: %s\n", strings.Join(r.Analysis.MatchedSkills, ", "))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(results) > count {
		fmt.Fprintf(&sb, "\n... and %d more", len(results)-count)
	}

	p.printBox("RANKED RESUMES", strings.TrimRight(sb.String(), "\n"))
}

// PrintInterviewReport outputs the score breakdown of a finished interview.
func (p *Printer) PrintInterviewReport(r *interview.Report) {
	if r == nil {
		return
	}

	var sb strings.Builder
	writeField(&sb, "Candidate", r.CandidateName)
	fmt.Fprintf(&sb, "%-11s %d%% (%s)\n", "Score:", r.OverallScore, r.Recommendation)
	fmt.Fprintf(&sb, "%-11s %d of %d\n", "Answered:", r.QuestionsAnswered, r.TotalQuestions)
	writeField(&sb, "Duration", r.Duration)

	if len(r.SkillScores) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, s := range r.SkillScores {
			fmt.Fprintf(&sb, "  • %-20s %.1f/10  %3d%%\n", s.Skill, s.Score, s.Percentage)
		}
	}
	writeList(&sb, "Strengths", r.Strengths, 3)
	writeList(&sb, "Weaknesses", r.Weaknesses, 3)

	p.printBox("INTERVIEW REPORT", strings.TrimRight(sb.String(), "\n"))
}
