package interview

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/prompts"
)

// Evaluator grades a candidate answer on a 0-10 scale
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer, skill string) Evaluation
}

// Defaults used when a model reply lacks a Score or Feedback line
const (
	DefaultScore    = 5
	DefaultFeedback = "Answer received."
)

// HeuristicEvaluator grades by answer length only
type HeuristicEvaluator struct{}

// Evaluate implements Evaluator
func (HeuristicEvaluator) Evaluate(_ context.Context, _, answer, _ string) Evaluation {
	words := len(strings.Fields(answer))
	switch {
	case words < 5:
		return Evaluation{Score: 3, Feedback: "Answer is too brief. Try to provide more details."}
	case words < 20:
		return Evaluation{Score: 6, Feedback: "Good attempt, but could be more comprehensive."}
	case words < 50:
		return Evaluation{Score: 8, Feedback: "Well-explained answer with good detail."}
	default:
		return Evaluation{Score: 9, Feedback: "Comprehensive and detailed answer."}
	}
}

// LLMEvaluator grades with the model and falls back to the heuristic when
// the call fails
type LLMEvaluator struct {
	client   llm.Client
	fallback Evaluator
	timeout  time.Duration
	logger   *zap.Logger
}

// NewLLMEvaluator creates an evaluator. timeout bounds each model call when positive.
func NewLLMEvaluator(client llm.Client, timeout time.Duration, log *zap.Logger) *LLMEvaluator {
	return &LLMEvaluator{
		client:   client,
		fallback: HeuristicEvaluator{},
		timeout:  timeout,
		logger:   logger.OrNop(log),
	}
}

// Evaluate implements Evaluator
func (e *LLMEvaluator) Evaluate(ctx context.Context, question, answer, skill string) Evaluation {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	prompt := prompts.Render(prompts.InterviewFile, "evaluation", map[string]string{
		"Question": question,
		"Answer":   answer,
		"Skill":    skill,
	})

	reply, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		e.logger.Warn("answer evaluation failed, using heuristic",
			zap.String("skill", skill), zap.Error(err))
		return e.fallback.Evaluate(ctx, question, answer, skill)
	}

	e.logger.Debug("evaluation reply", zap.String("reply", logger.TruncateForLog(reply, 200)))
	return ParseEvaluation(reply)
}

// ParseEvaluation reads "Score: N" and "Feedback: ..." lines from a model
// reply. Scores are clamped to 0-10; a score that is not an integer keeps
// the default.
func ParseEvaluation(reply string) Evaluation {
	eval := Evaluation{Score: DefaultScore, Feedback: DefaultFeedback}

	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		switch {
		case strings.HasPrefix(line, "Score:"):
			// only the text up to a second colon counts
			value := strings.Split(line, ":")[1]
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				continue
			}
			eval.Score = clampScore(n)
		case strings.HasPrefix(line, "Feedback:"):
			eval.Feedback = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
		}
	}
	return eval
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
