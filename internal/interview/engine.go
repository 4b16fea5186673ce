package interview

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/prompts"
	"github.com/jonathan/recruitment-manager/internal/types"
)

const (
	// DefaultQuestions is used when a start request asks for zero or fewer questions
	DefaultQuestions = 5
	// DefaultCandidateName is used when a start request has no name
	DefaultCandidateName = "Candidate"
	// contextWindow is how many trailing messages feed the next question
	contextWindow = 6
)

// Config holds the collaborators of an Engine. Zero values get defaults:
// bank questions, heuristic grading, wall clock and random UUIDs.
type Config struct {
	Questioner       Questioner
	Evaluator        Evaluator
	DefaultQuestions int
	Clock            func() time.Time
	NewID            func() string
	Logger           *zap.Logger
}

// Engine runs interview sessions held in a SessionStore
type Engine struct {
	store            *SessionStore
	questioner       Questioner
	evaluator        Evaluator
	defaultQuestions int
	now              func() time.Time
	newID            func() string
	logger           *zap.Logger
}

// NewEngine creates an engine over store
func NewEngine(store *SessionStore, cfg Config) *Engine {
	if store == nil {
		store = NewSessionStore()
	}
	e := &Engine{
		store:            store,
		questioner:       cfg.Questioner,
		evaluator:        cfg.Evaluator,
		defaultQuestions: cfg.DefaultQuestions,
		now:              cfg.Clock,
		newID:            cfg.NewID,
		logger:           logger.OrNop(cfg.Logger),
	}
	if e.questioner == nil {
		e.questioner = NewBankQuestioner(nil)
	}
	if e.evaluator == nil {
		e.evaluator = HeuristicEvaluator{}
	}
	if e.defaultQuestions <= 0 {
		e.defaultQuestions = DefaultQuestions
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// Store returns the engine's session store
func (e *Engine) Store() *SessionStore {
	return e.store
}

// Progress is the question counter shown to the candidate
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// StartResult is returned by Start
type StartResult struct {
	SessionID string   `json:"sessionId"`
	Message   Message  `json:"message"`
	Progress  Progress `json:"progress"`
}

// AnswerResult is returned by SubmitAnswer. Progress is set while the
// interview continues, FinalScore once it completes.
type AnswerResult struct {
	Message    Message    `json:"message"`
	Evaluation Evaluation `json:"evaluation"`
	Completed  bool       `json:"completed"`
	Progress   *Progress  `json:"progress,omitempty"`
	FinalScore *int       `json:"finalScore,omitempty"`
}

// SessionView is returned by GetSession
type SessionView struct {
	Session      *Session `json:"session"`
	CurrentScore int      `json:"currentScore"`
}

// EndResult is returned by End
type EndResult struct {
	SessionID         string `json:"sessionId"`
	FinalScore        int    `json:"finalScore"`
	QuestionsAnswered int    `json:"questionsAnswered"`
}

// Start opens a session, greets the candidate and asks the first question
func (e *Engine) Start(ctx context.Context, req types.StartInterviewRequest) (*StartResult, error) {
	if strings.TrimSpace(req.CandidateID) == "" || len(req.Skills) == 0 {
		return nil, &ValidationError{Field: "candidateId", Message: "candidateId and skills are required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Field: "skills", Message: "candidateId and skills are required", Cause: err}
	}

	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		name = DefaultCandidateName
	}
	total := req.NumQuestions
	if total <= 0 {
		total = e.defaultQuestions
	}

	now := e.now()
	session := &Session{
		ID:              e.newID(),
		CandidateID:     req.CandidateID,
		CandidateName:   name,
		Skills:          append([]string(nil), req.Skills...),
		CurrentQuestion: 1,
		TotalQuestions:  total,
		Scores:          []int{},
		Status:          StatusActive,
		StartedAt:       now,
	}

	opening := prompts.Render(prompts.InterviewFile, "opening", map[string]string{
		"CandidateName": name,
		"Skills":        strings.Join(session.Skills, ", "),
	})
	session.Messages = append(session.Messages, e.message(RoleInterviewer, opening))

	skill := session.SkillFor(1)
	first := e.question(e.questioner.NextQuestion(ctx, skill, ""), 1, skill)
	session.Messages = append(session.Messages, first)

	if err := e.store.Create(session); err != nil {
		return nil, err
	}

	e.logger.Info("interview started",
		zap.String("session_id", session.ID),
		zap.String("candidate_id", session.CandidateID),
		zap.Int("total_questions", total),
	)

	return &StartResult{
		SessionID: session.ID,
		Message:   first,
		Progress:  Progress{Current: 1, Total: total},
	}, nil
}

// SubmitAnswer grades the answer to the current question and either asks
// the next one or closes the interview
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	var result *AnswerResult

	err := e.store.With(sessionID, func(s *Session) error {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return &ValidationError{Field: "answer", Message: "Answer is required"}
		}
		if s.Status != StatusActive {
			return &InvalidStateError{SessionID: s.ID, Status: s.Status}
		}

		questionText := ""
		skill := s.SkillFor(s.CurrentQuestion)
		if last := s.LastQuestion(); last != nil {
			questionText = last.Content
			if last.Skill != "" {
				skill = last.Skill
			}
		}

		eval := e.evaluator.Evaluate(ctx, questionText, answer, skill)

		reply := e.message(RoleCandidate, answer)
		reply.Skill = skill
		reply.Evaluation = &eval
		s.Messages = append(s.Messages, reply)
		s.Scores = append(s.Scores, eval.Score)

		if s.CurrentQuestion >= s.TotalQuestions {
			s.complete(e.now())
			final := s.FinalScore()
			closing := prompts.Render(prompts.InterviewFile, "completion", map[string]string{
				"FinalScore": strconv.Itoa(final),
			})
			closingMsg := e.message(RoleInterviewer, closing)
			s.Messages = append(s.Messages, closingMsg)

			e.logger.Info("interview completed",
				zap.String("session_id", s.ID),
				zap.Int("final_score", final),
			)
			result = &AnswerResult{
				Message:    closingMsg,
				Evaluation: eval,
				Completed:  true,
				FinalScore: &final,
			}
			return nil
		}

		s.CurrentQuestion++
		nextSkill := s.SkillFor(s.CurrentQuestion)
		next := e.question(e.questioner.NextQuestion(ctx, nextSkill, recentContext(s.Messages)), s.CurrentQuestion, nextSkill)
		s.Messages = append(s.Messages, next)

		result = &AnswerResult{
			Message:    next,
			Evaluation: eval,
			Completed:  false,
			Progress:   &Progress{Current: s.CurrentQuestion, Total: s.TotalQuestions},
		}
		return nil
	})
	if err != nil {
		return nil, withNotFoundMessage(err, "Invalid session ID")
	}
	return result, nil
}

// GetSession returns a snapshot of the session and its running score
func (e *Engine) GetSession(sessionID string) (*SessionView, error) {
	session, ok := e.store.Get(sessionID)
	if !ok {
		return nil, &NotFoundError{SessionID: sessionID, Message: "Session not found"}
	}
	return &SessionView{Session: session, CurrentScore: session.FinalScore()}, nil
}

// End closes the session early. Ending a completed session is a no-op that
// reports the same figures.
func (e *Engine) End(sessionID string) (*EndResult, error) {
	var result *EndResult
	err := e.store.With(sessionID, func(s *Session) error {
		s.complete(e.now())
		result = &EndResult{
			SessionID:         s.ID,
			FinalScore:        s.FinalScore(),
			QuestionsAnswered: len(s.Scores),
		}
		return nil
	})
	if err != nil {
		return nil, withNotFoundMessage(err, "Invalid session ID")
	}

	e.logger.Info("interview ended",
		zap.String("session_id", sessionID),
		zap.Int("final_score", result.FinalScore),
	)
	return result, nil
}

func (e *Engine) message(role Role, content string) Message {
	return Message{
		ID:        e.newID(),
		Role:      role,
		Content:   content,
		Timestamp: e.now(),
	}
}

func (e *Engine) question(content string, number int, skill string) Message {
	m := e.message(RoleInterviewer, content)
	m.QuestionNumber = number
	m.Skill = skill
	return m
}

// recentContext renders the trailing messages as Q:/A: lines. Unnumbered
// interviewer messages render as empty lines.
func recentContext(messages []Message) string {
	start := len(messages) - contextWindow
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(messages)-start)
	for _, m := range messages[start:] {
		switch {
		case m.IsQuestion():
			lines = append(lines, "Q: "+m.Content)
		case m.Role == RoleCandidate:
			lines = append(lines, "A: "+m.Content)
		default:
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

func withNotFoundMessage(err error, message string) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return &NotFoundError{SessionID: nf.SessionID, Message: message}
	}
	return err
}
