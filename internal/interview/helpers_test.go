package interview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/recruitment-manager/internal/llm"
)

// fakeClient replays canned replies in order
type fakeClient struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

type questionCall struct {
	skill      string
	previousQA string
}

// scriptedQuestioner numbers its questions and records each request
type scriptedQuestioner struct {
	mu    sync.Mutex
	calls []questionCall
}

func (q *scriptedQuestioner) NextQuestion(_ context.Context, skill, previousQA string) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, questionCall{skill: skill, previousQA: previousQA})
	return fmt.Sprintf("Question %d about %s", len(q.calls), skill)
}

// fixedEvaluator hands out scores in order and records the skills it saw
type fixedEvaluator struct {
	mu     sync.Mutex
	scores []int
	skills []string
}

func (f *fixedEvaluator) Evaluate(_ context.Context, _, _, skill string) Evaluation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skills = append(f.skills, skill)
	score := 5
	if len(f.scores) > 0 {
		score = f.scores[0]
		f.scores = f.scores[1:]
	}
	return Evaluation{Score: score, Feedback: fmt.Sprintf("scored %d", score)}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var testStart = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestEngine(scores ...int) (*Engine, *scriptedQuestioner, *fixedEvaluator, *fakeClock) {
	q := &scriptedQuestioner{}
	ev := &fixedEvaluator{scores: scores}
	clock := &fakeClock{t: testStart}
	engine := NewEngine(NewSessionStore(), Config{
		Questioner: q,
		Evaluator:  ev,
		Clock:      clock.Now,
		NewID:      sequentialIDs(),
	})
	return engine, q, ev, clock
}
