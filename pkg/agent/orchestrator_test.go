package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"edudash-be/internal/pkg/logger"
	"edudash-be/pkg/llm"
	"edudash-be/pkg/tools"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays canned step results and records every call.
type scriptedProvider struct {
	steps     []llm.StreamResult
	calls     int
	histories [][]llm.Message
	err       error
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, specs []llm.ToolSpec, onToken func(string), opts ...llm.Option) (*llm.StreamResult, error) {
	s.calls++
	s.histories = append(s.histories, history)
	if s.err != nil {
		return nil, s.err
	}

	step := s.steps[0]
	if len(s.steps) > 1 {
		s.steps = s.steps[1:]
	}
	if onToken != nil && step.Content != "" {
		onToken(step.Content)
	}
	return &step, nil
}

func collectEvents(events chan Event) []Event {
	close(events)
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}

func newTestOrchestrator(provider llm.LLMProvider, catalog ...tools.Tool) *Orchestrator {
	return NewOrchestrator(provider, tools.NewRegistry(catalog...), logger.NewNopLogger())
}

func TestRunNoToolCalls(t *testing.T) {
	provider := &scriptedProvider{steps: []llm.StreamResult{{Content: "plain answer"}}}
	o := newTestOrchestrator(provider)

	events := make(chan Event, 16)
	result, err := o.Run(context.Background(), Request{
		UserID:  uuid.New(),
		Role:    RoleStudent,
		History: []llm.Message{{Role: llm.RoleUser, Content: "hello"}},
	}, events)

	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "plain answer", result.Reply)
	assert.Empty(t, result.ToolTrace)

	got := collectEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, EventGenerating, got[0].Type)
	assert.Equal(t, "plain answer", got[0].Token)
}

func TestRunExecutesRequestedToolsInOrder(t *testing.T) {
	var executed []string
	catalog := []tools.Tool{
		{
			Name: "first",
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				executed = append(executed, "first")
				return map[string]any{"ok": true}, nil
			},
		},
		{
			Name: "second",
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				executed = append(executed, "second")
				return map[string]any{"ok": true}, nil
			},
		},
	}

	provider := &scriptedProvider{steps: []llm.StreamResult{
		{ToolCalls: []llm.ToolCall{
			{Name: "first", Arguments: json.RawMessage(`{}`)},
			{Name: "second", Arguments: json.RawMessage(`{}`)},
		}},
		{Content: "done"},
	}}

	o := newTestOrchestrator(provider, catalog...)
	events := make(chan Event, 16)

	result, err := o.Run(context.Background(), Request{UserID: uuid.New(), Role: RoleStudent}, events)

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, executed)
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, "done", result.Reply)
	require.Len(t, result.ToolTrace, 2)
	assert.Equal(t, "first", result.ToolTrace[0].Name)

	// The second model call must see the tool-role results appended after
	// the assistant's request, in execution order.
	second := provider.histories[1]
	require.GreaterOrEqual(t, len(second), 4)
	assert.Equal(t, llm.RoleAssistant, second[len(second)-3].Role)
	assert.Equal(t, "first", second[len(second)-2].ToolName)
	assert.Equal(t, "second", second[len(second)-1].ToolName)
}

func TestRunStepCap(t *testing.T) {
	// The model asks for a tool on every step; the loop must stop at
	// MaxSteps model calls regardless.
	greedy := llm.StreamResult{ToolCalls: []llm.ToolCall{{Name: "probe", Arguments: json.RawMessage(`{}`)}}}
	provider := &scriptedProvider{steps: []llm.StreamResult{greedy, greedy, greedy, greedy}}

	o := newTestOrchestrator(provider, tools.Tool{
		Name: "probe",
		Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
			return "probed", nil
		},
	})

	events := make(chan Event, 64)
	result, err := o.Run(context.Background(), Request{UserID: uuid.New(), Role: RoleLecturer}, events)

	require.NoError(t, err)
	assert.Equal(t, MaxSteps, provider.calls)
	assert.Equal(t, MaxSteps, result.Steps)
	// Only the first two steps execute tools; the capped final step does not.
	assert.Len(t, result.ToolTrace, MaxSteps-1)
}

func TestRunToolFailureDoesNotAbortTurn(t *testing.T) {
	provider := &scriptedProvider{steps: []llm.StreamResult{
		{ToolCalls: []llm.ToolCall{{Name: "flaky", Arguments: json.RawMessage(`{}`)}}},
		{Content: "the lookup failed, sorry"},
	}}

	o := newTestOrchestrator(provider, tools.Tool{
		Name: "flaky",
		Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
			return nil, errors.New("grade table offline")
		},
	})

	events := make(chan Event, 16)
	result, err := o.Run(context.Background(), Request{UserID: uuid.New(), Role: RoleStudent}, events)

	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, "the lookup failed, sorry", result.Reply)

	require.Len(t, result.ToolTrace, 1)
	assert.Contains(t, result.ToolTrace[0].Error, "grade table offline")

	// The tool-role message carries the error payload for the model.
	second := provider.histories[1]
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Contains(t, last.Content, "grade table offline")
}

func TestRunModelFailureSurfaces(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limited")}
	o := newTestOrchestrator(provider)

	events := make(chan Event, 4)
	_, err := o.Run(context.Background(), Request{UserID: uuid.New(), Role: RoleStudent}, events)

	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{steps: []llm.StreamResult{{Content: "never"}}}
	o := newTestOrchestrator(provider)

	events := make(chan Event, 4)
	_, err := o.Run(ctx, Request{UserID: uuid.New(), Role: RoleStudent}, events)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, provider.calls)
}

func TestSystemPromptRoleEmphasis(t *testing.T) {
	registry := tools.NewRegistry(tools.Tool{
		Name:        "get_average_grade",
		Description: "Average grade lookup.",
		Trigger:     "When the user asks about averages, always use this tool.",
	})

	studentPrompt := buildSystemPrompt(registry, RoleStudent)
	lecturerPrompt := buildSystemPrompt(registry, RoleLecturer)

	assert.Contains(t, studentPrompt, "get_average_grade")
	assert.Contains(t, studentPrompt, "always use this tool")
	assert.Contains(t, studentPrompt, "student")
	assert.Contains(t, lecturerPrompt, "analytics")
	assert.NotEqual(t, studentPrompt, lecturerPrompt)
}
