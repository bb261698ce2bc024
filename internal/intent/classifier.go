package intent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

const classifierPrompt = `Classify this patient email sent to a clinic scheduling inbox. Respond with JSON only.

Intents:
- AVAILABILITY_REQUEST: asking what appointment times are open or when the doctor is free
- BOOKING_CONFIRMATION: asking to book, confirm or take one or more specific times

IMPORTANT:
- A message naming specific day(s) and time(s) it wants = BOOKING_CONFIRMATION
- A message only asking what is open = AVAILABILITY_REQUEST

Subject: %s
Body: %s

Respond with: {"intent": "<AVAILABILITY_REQUEST|BOOKING_CONFIRMATION>"}`

// LLMClassifier classifies messages with an LLM and falls back to the
// keyword heuristics when the model is unreachable or answers outside the two
// known intents.
type LLMClassifier struct {
	client LLMClient
	logger *logging.Logger
}

var _ Classifier = (*LLMClassifier)(nil)

// NewLLMClassifier creates a classifier over the given LLM backend.
func NewLLMClassifier(client LLMClient, logger *logging.Logger) *LLMClassifier {
	if client == nil {
		panic("intent: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMClassifier{client: client, logger: logger}
}

// Classify returns the message's intent.
func (c *LLMClassifier) Classify(ctx context.Context, subject, body string) (Kind, error) {
	prompt := fmt.Sprintf(classifierPrompt, subject, body)

	resp, err := c.client.Complete(ctx, LLMRequest{
		Messages:  []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens: 50,
	})
	if err != nil {
		c.logger.Warn("llm classification failed, using keyword fallback", "error", err)
		return HeuristicClassify(subject, body)
	}

	var result struct {
		Intent string `json:"intent"`
	}
	content := extractJSONObject(resp.Text)
	if content == "" || json.Unmarshal([]byte(content), &result) != nil {
		c.logger.Warn("llm classification returned unparseable content", "text", resp.Text)
		return HeuristicClassify(subject, body)
	}

	kind, err := ParseKind(result.Intent)
	if err != nil {
		c.logger.Warn("llm classification named an unknown intent", "intent", result.Intent)
		return HeuristicClassify(subject, body)
	}
	return kind, nil
}
