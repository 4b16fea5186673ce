// Package interview runs stateful technical interview sessions: it asks
// skill-based questions, grades answers and summarizes the outcome.
package interview

import (
	"math"
	"time"
)

// Status is the lifecycle state of a session
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Role identifies who authored a message
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Evaluation is the grade given to one answer
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Message is one entry of the interview transcript. Questions carry a
// QuestionNumber; greetings and the closing message do not.
type Message struct {
	ID             string      `json:"id"`
	Role           Role        `json:"role"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
	QuestionNumber int         `json:"questionNumber,omitempty"`
	Skill          string      `json:"skill,omitempty"`
	Evaluation     *Evaluation `json:"evaluation,omitempty"`
}

// IsQuestion reports whether m is a numbered interviewer question
func (m Message) IsQuestion() bool {
	return m.Role == RoleInterviewer && m.QuestionNumber > 0
}

// Session is the full state of one interview
type Session struct {
	ID              string     `json:"id"`
	CandidateID     string     `json:"candidateId"`
	CandidateName   string     `json:"candidateName"`
	Skills          []string   `json:"skills"`
	Messages        []Message  `json:"messages"`
	CurrentQuestion int        `json:"currentQuestion"`
	TotalQuestions  int        `json:"totalQuestions"`
	Scores          []int      `json:"scores"`
	Status          Status     `json:"status"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// SkillFor returns the skill assessed by question n (1-based). Once the
// skill list is exhausted the last skill is reused.
func (s *Session) SkillFor(n int) string {
	if len(s.Skills) == 0 {
		return ""
	}
	i := n - 1
	if i < 0 {
		i = 0
	}
	if i > len(s.Skills)-1 {
		i = len(s.Skills) - 1
	}
	return s.Skills[i]
}

// LastQuestion returns the most recent numbered question, or nil
func (s *Session) LastQuestion() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].IsQuestion() {
			return &s.Messages[i]
		}
	}
	return nil
}

// AverageScore is the mean of the recorded scores, 0 when none
func (s *Session) AverageScore() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	sum := 0
	for _, v := range s.Scores {
		sum += v
	}
	return float64(sum) / float64(len(s.Scores))
}

// FinalScore is the average score as a whole percentage
func (s *Session) FinalScore() int {
	return percent(s.AverageScore())
}

// complete marks the session completed. An already completed session keeps
// its original completion time.
func (s *Session) complete(now time.Time) {
	if s.Status == StatusCompleted && s.CompletedAt != nil {
		return
	}
	s.Status = StatusCompleted
	s.CompletedAt = &now
}

// clone returns a deep copy safe to hand out after the session lock is released
func (s *Session) clone() *Session {
	c := *s
	c.Skills = append([]string(nil), s.Skills...)
	c.Scores = append([]int(nil), s.Scores...)
	c.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if m.Evaluation != nil {
			e := *m.Evaluation
			m.Evaluation = &e
		}
		c.Messages[i] = m
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// percent converts a 0-10 average to a 0-100 percentage, rounding half to even
func percent(avg float64) int {
	return int(math.RoundToEven(avg / 10 * 100))
}
