package interview

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SkillScore is the average grade of the questions asked about one skill
type SkillScore struct {
	Skill      string  `json:"skill"`
	Score      float64 `json:"score"`
	Percentage int     `json:"percentage"`
}

// TranscriptEntry pairs a question with its answer
type TranscriptEntry struct {
	Question string `json:"question"`
	Skill    string `json:"skill,omitempty"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Report is the detailed outcome of a session
type Report struct {
	SessionID         string            `json:"sessionId"`
	CandidateID       string            `json:"candidateId"`
	CandidateName     string            `json:"candidateName"`
	Skills            []string          `json:"skills"`
	OverallScore      int               `json:"overallScore"`
	TotalQuestions    int               `json:"totalQuestions"`
	QuestionsAnswered int               `json:"questionsAnswered"`
	SkillScores       []SkillScore      `json:"skillScores"`
	Strengths         []string          `json:"strengths"`
	Weaknesses        []string          `json:"weaknesses"`
	Recommendation    string            `json:"recommendation"`
	CompletedAt       time.Time         `json:"completedAt"`
	Duration          string            `json:"duration"`
	Transcript        []TranscriptEntry `json:"transcript"`
}

// ResultSummary is one row of AllResults
type ResultSummary struct {
	SessionID         string    `json:"sessionId"`
	CandidateID       string    `json:"candidateId"`
	CandidateName     string    `json:"candidateName"`
	OverallScore      int       `json:"overallScore"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	TotalQuestions    int       `json:"totalQuestions"`
	CompletedAt       time.Time `json:"completedAt"`
}

// AllResultsResponse lists every completed session
type AllResultsResponse struct {
	Results []ResultSummary `json:"results"`
	Count   int             `json:"count"`
}

// Recommendation bands on the overall percentage
const (
	RecommendStrong   = "Highly Recommended - Strong Candidate"
	RecommendGood     = "Recommended - Good Fit"
	RecommendModerate = "Consider for Review - Moderate Fit"
	RecommendWeak     = "Not Recommended - Weak Performance"
)

// Results builds the report for a session, whether or not it has completed
func (e *Engine) Results(sessionID string) (*Report, error) {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return nil, &NotFoundError{SessionID: sessionID, Message: "Session not found"}
	}
	return buildReport(s, e.now()), nil
}

// AllResults summarizes the completed sessions, oldest first
func (e *Engine) AllResults() AllResultsResponse {
	resp := AllResultsResponse{Results: []ResultSummary{}}
	for _, s := range e.store.List() {
		if s.Status != StatusCompleted {
			continue
		}
		row := ResultSummary{
			SessionID:         s.ID,
			CandidateID:       s.CandidateID,
			CandidateName:     s.CandidateName,
			OverallScore:      s.FinalScore(),
			QuestionsAnswered: len(s.Scores),
			TotalQuestions:    s.TotalQuestions,
		}
		if s.CompletedAt != nil {
			row.CompletedAt = *s.CompletedAt
		}
		resp.Results = append(resp.Results, row)
	}
	resp.Count = len(resp.Results)
	return resp
}

func buildReport(s *Session, now time.Time) *Report {
	overall := s.FinalScore()
	skillScores := scoresBySkill(s)

	end := now
	if s.CompletedAt != nil {
		end = *s.CompletedAt
	}
	minutes := int(math.RoundToEven(end.Sub(s.StartedAt).Minutes()))

	strengths, weaknesses := assess(overall, skillScores)

	return &Report{
		SessionID:         s.ID,
		CandidateID:       s.CandidateID,
		CandidateName:     s.CandidateName,
		Skills:            s.Skills,
		OverallScore:      overall,
		TotalQuestions:    s.TotalQuestions,
		QuestionsAnswered: len(s.Scores),
		SkillScores:       skillScores,
		Strengths:         strengths,
		Weaknesses:        weaknesses,
		Recommendation:    Recommend(overall),
		CompletedAt:       end,
		Duration:          fmt.Sprintf("%d minutes", minutes),
		Transcript:        transcript(s.Messages),
	}
}

// scoresBySkill averages answers by the skill their question was asked
// about. Skills follow the session's skill order; unasked skills are left out.
func scoresBySkill(s *Session) []SkillScore {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, m := range s.Messages {
		if m.Role != RoleCandidate || m.Evaluation == nil {
			continue
		}
		sums[m.Skill] += m.Evaluation.Score
		counts[m.Skill]++
	}

	out := []SkillScore{}
	seen := make(map[string]bool)
	for _, skill := range s.Skills {
		if seen[skill] || counts[skill] == 0 {
			continue
		}
		seen[skill] = true
		avg := float64(sums[skill]) / float64(counts[skill])
		out = append(out, SkillScore{
			Skill:      skill,
			Score:      math.Round(avg*10) / 10,
			Percentage: percent(avg),
		})
	}
	return out
}

func assess(overall int, skills []SkillScore) (strengths, weaknesses []string) {
	if overall >= 80 {
		strengths = append(strengths, "Excellent overall performance")
	}
	if overall >= 70 {
		strengths = append(strengths, "Strong technical knowledge")
	}
	if high := skillNames(skills, func(s SkillScore) bool { return s.Score >= 8 }); len(high) > 0 {
		strengths = append(strengths, "Proficient in "+strings.Join(high, ", "))
	}

	if overall < 70 {
		weaknesses = append(weaknesses, "Could improve overall technical depth")
	}
	if low := skillNames(skills, func(s SkillScore) bool { return s.Score < 6 }); len(low) > 0 {
		weaknesses = append(weaknesses, "Needs improvement in "+strings.Join(low, ", "))
	}

	if len(strengths) == 0 {
		strengths = []string{"Completed interview"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"No significant gaps identified"}
	}
	return strengths, weaknesses
}

// skillNames returns at most two skills matching keep
func skillNames(skills []SkillScore, keep func(SkillScore) bool) []string {
	var names []string
	for _, s := range skills {
		if keep(s) {
			names = append(names, s.Skill)
			if len(names) == 2 {
				break
			}
		}
	}
	return names
}

// Recommend maps an overall percentage to a hiring recommendation
func Recommend(overall int) string {
	switch {
	case overall >= 80:
		return RecommendStrong
	case overall >= 65:
		return RecommendGood
	case overall >= 50:
		return RecommendModerate
	default:
		return RecommendWeak
	}
}

// transcript pairs each question with the first candidate message after it.
// Unanswered questions are skipped.
func transcript(messages []Message) []TranscriptEntry {
	out := []TranscriptEntry{}
	for i, m := range messages {
		if !m.IsQuestion() {
			continue
		}
		for _, next := range messages[i+1:] {
			if next.Role != RoleCandidate {
				continue
			}
			entry := TranscriptEntry{Question: m.Content, Skill: m.Skill, Answer: next.Content}
			if next.Evaluation != nil {
				entry.Score = next.Evaluation.Score
				entry.Feedback = next.Evaluation.Feedback
			}
			out = append(out, entry)
			break
		}
	}
	return out
}
