package interview

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/prompts"
)

// Questioner produces the next interview question for a skill. previousQA
// holds recent Q:/A: lines and is empty for the first question.
type Questioner interface {
	NextQuestion(ctx context.Context, skill, previousQA string) string
}

type bankEntry struct {
	key       string
	questions []string
}

const generalKey = "general"

// questionBank is searched in order; the first matching key wins
var questionBank = []bankEntry{
	{"react", []string{
		"What is the difference between state and props in React?",
		"Explain the concept of React hooks and give examples.",
		"How does the Virtual DOM work in React?",
		"What are React lifecycle methods? Name a few.",
		"Explain the useEffect hook and its use cases.",
		"What is the difference between controlled and uncontrolled components?",
		"How do you optimize performance in React applications?",
		"What is Redux and when would you use it?",
	}},
	{"javascript", []string{
		"Explain the difference between let, const, and var.",
		"What is closure in JavaScript? Give an example.",
		"Explain promises and async/await in JavaScript.",
		"What is the event loop in JavaScript?",
		"Explain the difference between == and === operators.",
		"What are arrow functions and how do they differ from regular functions?",
		"Explain prototypal inheritance in JavaScript.",
		"What is the 'this' keyword in JavaScript?",
	}},
	{"typescript", []string{
		"What are the benefits of using TypeScript over JavaScript?",
		"Explain interfaces and types in TypeScript.",
		"What are generics in TypeScript?",
		"How does TypeScript handle type inference?",
		"What is the difference between 'any' and 'unknown' types?",
		"Explain union and intersection types.",
		"What are decorators in TypeScript?",
		"How do you handle null and undefined in TypeScript?",
	}},
	{"python", []string{
		"Explain the difference between lists and tuples in Python.",
		"What are decorators in Python?",
		"Explain list comprehensions with an example.",
		"What is the difference between deep copy and shallow copy?",
		"Explain Python's GIL (Global Interpreter Lock).",
		"What are generators in Python?",
		"Explain the difference between @staticmethod and @classmethod.",
		"What is the purpose of __init__ and __new__ methods?",
	}},
	{"node.js", []string{
		"What is Node.js and how does it work?",
		"Explain the event-driven architecture of Node.js.",
		"What is the difference between synchronous and asynchronous code?",
		"Explain middleware in Express.js.",
		"What is npm and what is package.json?",
		"How do you handle errors in Node.js?",
		"Explain streams in Node.js.",
		"What is the purpose of the cluster module?",
	}},
	{"sql", []string{
		"What is the difference between INNER JOIN and OUTER JOIN?",
		"Explain normalization and denormalization.",
		"What are indexes and why are they important?",
		"Explain the difference between DELETE, TRUNCATE, and DROP.",
		"What is a primary key and foreign key?",
		"Explain ACID properties in databases.",
		"What are stored procedures?",
		"Explain the difference between WHERE and HAVING clauses.",
	}},
	{generalKey, []string{
		"Tell me about a challenging project you worked on.",
		"How do you approach debugging complex issues?",
		"Describe your experience with version control systems.",
		"How do you stay updated with new technologies?",
		"Explain your approach to code reviews.",
		"How do you handle tight deadlines?",
		"Describe a time when you had to learn a new technology quickly.",
		"What's your experience with agile methodologies?",
	}},
}

// QuestionsFor returns the question pool for a skill. A key matches when it
// is contained in the lowercased skill or the other way round, so "React
// Native" maps to react and "node" to node.js. Unknown skills get the
// general pool.
func QuestionsFor(skill string) []string {
	lower := strings.ToLower(skill)
	for _, entry := range questionBank {
		if strings.Contains(lower, entry.key) || strings.Contains(entry.key, lower) {
			return entry.questions
		}
	}
	return questionBank[len(questionBank)-1].questions
}

// BankQuestioner picks a random question from the built-in bank
type BankQuestioner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBankQuestioner uses rng for selection; nil seeds from the clock
func NewBankQuestioner(rng *rand.Rand) *BankQuestioner {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &BankQuestioner{rng: rng}
}

// NextQuestion ignores the conversation so far
func (b *BankQuestioner) NextQuestion(_ context.Context, skill, _ string) string {
	pool := QuestionsFor(skill)

	b.mu.Lock()
	i := b.rng.IntN(len(pool))
	b.mu.Unlock()

	return pool[i]
}

// LLMQuestioner asks the model for a question and falls back to the bank
// when the call fails or the reply is empty
type LLMQuestioner struct {
	client   llm.Client
	fallback Questioner
	timeout  time.Duration
	logger   *zap.Logger
}

// NewLLMQuestioner creates a questioner. timeout bounds each model call when positive.
func NewLLMQuestioner(client llm.Client, fallback Questioner, timeout time.Duration, log *zap.Logger) *LLMQuestioner {
	if fallback == nil {
		fallback = NewBankQuestioner(nil)
	}
	return &LLMQuestioner{
		client:   client,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger.OrNop(log),
	}
}

// NextQuestion implements Questioner
func (q *LLMQuestioner) NextQuestion(ctx context.Context, skill, previousQA string) string {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	reply, err := q.client.GenerateContent(ctx, BuildQuestionPrompt(skill, previousQA), llm.TierLite)
	if err != nil {
		q.logger.Warn("question generation failed, using question bank",
			zap.String("skill", skill), zap.Error(err))
		return q.fallback.NextQuestion(ctx, skill, previousQA)
	}

	question := cleanQuestion(reply)
	if question == "" {
		q.logger.Warn("empty question from model, using question bank", zap.String("skill", skill))
		return q.fallback.NextQuestion(ctx, skill, previousQA)
	}
	return question
}

// BuildQuestionPrompt renders the question prompt, adding the conversation
// context only when there is some
func BuildQuestionPrompt(skill, previousQA string) string {
	history := ""
	if previousQA != "" {
		history = prompts.Render(prompts.InterviewFile, "question-context", map[string]string{
			"PreviousQA": previousQA,
		})
	}
	return prompts.Render(prompts.InterviewFile, "question", map[string]string{
		"Skill":   skill,
		"Context": history,
	})
}

func cleanQuestion(reply string) string {
	return strings.Trim(strings.TrimSpace(reply), `"'`)
}
