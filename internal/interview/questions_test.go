package interview

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsFor(t *testing.T) {
	tests := []struct {
		skill     string
		wantFirst string
	}{
		{"React", "What is the difference between state and props in React?"},
		{"React Native", "What is the difference between state and props in React?"},
		{"node", "What is Node.js and how does it work?"},
		{"Node.js", "What is Node.js and how does it work?"},
		{"Java", "Explain the difference between let, const, and var."},
		{"TypeScript", "What are the benefits of using TypeScript over JavaScript?"},
		{"PostgreSQL", "What is the difference between INNER JOIN and OUTER JOIN?"},
		{"python3", "Explain the difference between lists and tuples in Python."},
		{"Golang", "Tell me about a challenging project you worked on."},
		{"Kubernetes", "Tell me about a challenging project you worked on."},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			pool := QuestionsFor(tt.skill)
			require.Len(t, pool, 8)
			assert.Equal(t, tt.wantFirst, pool[0])
		})
	}
}

func TestBankQuestioner_PicksFromPool(t *testing.T) {
	q := NewBankQuestioner(rand.New(rand.NewPCG(1, 2)))
	pool := QuestionsFor("sql")

	for i := 0; i < 20; i++ {
		assert.Contains(t, pool, q.NextQuestion(context.Background(), "SQL", ""))
	}
}

func TestBankQuestioner_SeededIsDeterministic(t *testing.T) {
	a := NewBankQuestioner(rand.New(rand.NewPCG(7, 7)))
	b := NewBankQuestioner(rand.New(rand.NewPCG(7, 7)))

	for i := 0; i < 5; i++ {
		assert.Equal(t,
			a.NextQuestion(context.Background(), "python", ""),
			b.NextQuestion(context.Background(), "python", ""))
	}
}

type constQuestioner string

func (c constQuestioner) NextQuestion(context.Context, string, string) string { return string(c) }

func TestLLMQuestioner(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		want   string
	}{
		{"double quoted", &fakeClient{replies: []string{"  \"What is a goroutine?\"\n"}}, "What is a goroutine?"},
		{"single quoted", &fakeClient{replies: []string{"'Explain channels.'"}}, "Explain channels."},
		{"plain", &fakeClient{replies: []string{"How does defer work?"}}, "How does defer work?"},
		{"model error", &fakeClient{err: errors.New("connection refused")}, "bank question"},
		{"empty reply", &fakeClient{replies: []string{"   "}}, "bank question"},
		{"only quotes", &fakeClient{replies: []string{` "" `}}, "bank question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewLLMQuestioner(tt.client, constQuestioner("bank question"), 0, nil)
			assert.Equal(t, tt.want, q.NextQuestion(context.Background(), "Go", ""))
		})
	}
}

func TestLLMQuestioner_PromptContext(t *testing.T) {
	client := &fakeClient{replies: []string{"first?", "second?"}}
	q := NewLLMQuestioner(client, nil, 0, nil)

	q.NextQuestion(context.Background(), "Go", "")
	q.NextQuestion(context.Background(), "Go", "Q: What is a slice?\nA: A view over an array.")

	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[0], "technical interview for a Go position.")
	assert.NotContains(t, client.prompts[0], "Previous conversation")
	assert.Contains(t, client.prompts[1], "Previous conversation:\nQ: What is a slice?\nA: A view over an array.")
	assert.Contains(t, client.prompts[1], "interview question about Go.")
}

func TestBuildQuestionPrompt_DoesNotExpandAnswerText(t *testing.T) {
	prompt := BuildQuestionPrompt("Go", "A: I wrote {{.Skill}} literally")
	assert.Contains(t, prompt, "A: I wrote {{.Skill}} literally")
}
