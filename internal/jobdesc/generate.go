// Package jobdesc writes job descriptions with the language model.
package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/prompts"
)

// ErrEmptyPrompt is returned when there is nothing to generate from
var ErrEmptyPrompt = errors.New("prompt is required")

// GenerationError means the model produced no usable job description
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Generator produces markdown job descriptions
type Generator struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerator creates a generator. timeout bounds each model call when positive.
func NewGenerator(client llm.Client, timeout time.Duration, log *zap.Logger) *Generator {
	return &Generator{client: client, timeout: timeout, logger: logger.OrNop(log)}
}

// Generate sends prompt to the model as-is and returns the trimmed reply
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if g.client == nil {
		return "", &GenerationError{Message: "Failed to generate JD", Cause: errors.New("no LLM client configured")}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		g.logger.Error("job description generation failed", zap.Error(err))
		return "", &GenerationError{Message: "Failed to generate JD", Cause: err}
	}

	markdown := strings.TrimSpace(reply)
	if markdown == "" {
		g.logger.Warn("model returned an empty job description")
		return "", &GenerationError{Message: "Failed to generate JD"}
	}

	g.logger.Info("job description generated",
		zap.Int("chars", len(markdown)),
		zap.Duration("duration", time.Since(start)),
	)
	return markdown, nil
}

// GenerateForRole builds the role prompt and generates from it
func (g *Generator) GenerateForRole(ctx context.Context, role string) (string, error) {
	if strings.TrimSpace(role) == "" {
		return "", ErrEmptyPrompt
	}
	return g.Generate(ctx, BuildRolePrompt(role))
}

// BuildRolePrompt asks for a sectioned job description for a role title
// such as "Data Scientist at Fintech Startup"
func BuildRolePrompt(role string) string {
	return prompts.Render(prompts.JobDescFile, "role", map[string]string{
		"Role": strings.TrimSpace(role),
	})
}
