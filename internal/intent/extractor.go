package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

const extractorPrompt = `Extract every appointment slot this patient email asks to book. Respond with JSON only.

Rules:
- "day" is the weekday name or ISO date exactly as the patient gave it
- "time" is a 12-hour clock time with AM/PM
- Keep the slots in the order the patient listed them
- If no concrete day and time pair is present, respond with []

Subject: %s
Body: %s

Respond with: [{"day": "<day>", "time": "<h:mm AM|PM>"}, ...]`

// LLMExtractor pulls requested slots out of a message with an LLM, degrading
// to the regex fallback on any model failure. It reports an empty list rather
// than an error when nothing usable is present, so callers always end in the
// "please restate day and time" reply instead of a fault path.
type LLMExtractor struct {
	client LLMClient
	logger *logging.Logger
}

var _ Extractor = (*LLMExtractor)(nil)

// NewLLMExtractor creates an extractor over the given LLM backend.
func NewLLMExtractor(client LLMClient, logger *logging.Logger) *LLMExtractor {
	if client == nil {
		panic("intent: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMExtractor{client: client, logger: logger}
}

// Extract returns the ordered slot requests found in the message.
func (e *LLMExtractor) Extract(ctx context.Context, subject, body string) ([]SlotRequest, error) {
	prompt := fmt.Sprintf(extractorPrompt, subject, body)

	resp, err := e.client.Complete(ctx, LLMRequest{
		Messages:  []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens: 300,
	})
	if err != nil {
		e.logger.Warn("llm extraction failed, using regex fallback", "error", err)
		return HeuristicExtract(subject, body), nil
	}

	content := extractJSONArray(resp.Text)
	var raw []SlotRequest
	if content == "" || json.Unmarshal([]byte(content), &raw) != nil {
		e.logger.Warn("llm extraction returned unparseable content", "text", resp.Text)
		return HeuristicExtract(subject, body), nil
	}

	reqs := make([]SlotRequest, 0, len(raw))
	for _, r := range raw {
		r.Day = strings.TrimSpace(r.Day)
		r.Time = strings.TrimSpace(r.Time)
		if r.Day == "" || r.Time == "" {
			continue
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}
