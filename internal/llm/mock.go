package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockResponder produces the raw payload for a prompt. Tests install
// responders keyed on prompt content to drive deterministic pipelines.
type MockResponder func(prompt string) (string, error)

// MockClient is a deterministic in-memory Client for tests and dry runs.
// Responders are consulted in registration order; the first whose matcher
// accepts the prompt wins.
type MockClient struct {
	mu         sync.Mutex
	responders []mockRule
	fallback   string
	calls      []string
}

type mockRule struct {
	match   func(prompt string) bool
	respond MockResponder
}

// NewMockClient creates a mock client whose unmatched prompts return the
// given fallback payload.
func NewMockClient(fallback string) *MockClient {
	return &MockClient{fallback: fallback}
}

// Respond registers a responder for prompts accepted by match.
func (m *MockClient) Respond(match func(prompt string) bool, respond MockResponder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responders = append(m.responders, mockRule{match: match, respond: respond})
}

// Calls returns a copy of all prompts seen so far.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// GenerateJSON implements Client.
func (m *MockClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, Usage, error) {
	if err := ctx.Err(); err != nil {
		return "", Usage{}, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	rules := m.responders
	m.mu.Unlock()

	for _, rule := range rules {
		if rule.match(prompt) {
			text, err := rule.respond(prompt)
			if err != nil {
				return "", Usage{}, err
			}
			return CleanJSONBlock(text), Usage{TotalTokens: len(text) / 4}, nil
		}
	}

	if m.fallback == "" {
		return "", Usage{}, fmt.Errorf("mock client has no responder for prompt")
	}
	return CleanJSONBlock(m.fallback), Usage{TotalTokens: len(m.fallback) / 4}, nil
}

// GetModel implements Client.
func (m *MockClient) GetModel(tier ModelTier) string {
	return "mock-" + string(tier)
}

// Close implements Client.
func (m *MockClient) Close() error {
	return nil
}
