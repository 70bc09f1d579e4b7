package openai

import (
	"context"

	"navigator-profiler/internal/report"
)

// Narrative generates report prose via the chat completions endpoint.
// Satisfies report.NarrativeGenerator; the assembler handles fallback.
type Narrative struct {
	client *Client
}

func NewNarrative(cfg Config) *Narrative {
	return &Narrative{client: NewClient(cfg)}
}

func (n *Narrative) Generate(ctx context.Context, payload report.NarrativePayload) (string, error) {
	return n.client.complete(ctx, report.SystemPrompt, report.Prompt(payload), 0.7, 2000)
}
