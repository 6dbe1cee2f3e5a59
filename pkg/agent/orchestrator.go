package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"edudash-be/internal/pkg/logger"
	"edudash-be/pkg/llm"
	"edudash-be/pkg/tools"

	"github.com/google/uuid"
)

// MaxSteps caps the number of model-generation calls per user turn. When
// the cap is reached while the model still wants tools, whatever text has
// been produced so far is final.
const MaxSteps = 3

// Request is one user turn handed to the orchestrator. History carries
// the prior conversation plus the new user message, oldest first.
type Request struct {
	UserID  uuid.UUID
	Role    string
	History []llm.Message
}

// ToolInvocation records one executed tool call for the transcript.
type ToolInvocation struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    any             `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Result is the outcome of a completed turn.
type Result struct {
	Reply     string
	Steps     int
	ToolTrace []ToolInvocation
}

// Orchestrator drives the bounded generate/tool-intercept loop on top of
// a streaming model call. It owns no storage; tool side effects go
// through the registry, transcript writes are the caller's job.
type Orchestrator struct {
	llmProvider llm.LLMProvider
	registry    *tools.Registry
	logger      logger.ILogger
	maxSteps    int
}

func NewOrchestrator(llmProvider llm.LLMProvider, registry *tools.Registry, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		llmProvider: llmProvider,
		registry:    registry,
		logger:      log,
		maxSteps:    MaxSteps,
	}
}

// Run executes the loop for one turn, pushing generating events onto the
// stream as tokens arrive. It returns the accumulated reply and the tool
// trace; model failures come back as ModelServiceError for the caller to
// convert into a final error payload.
func (o *Orchestrator) Run(ctx context.Context, req Request, events chan<- Event) (*Result, error) {
	systemPrompt := buildSystemPrompt(o.registry, req.Role)

	history := make([]llm.Message, 0, len(req.History)+1)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	history = append(history, req.History...)

	call := tools.CallContext{UserID: req.UserID, Role: req.Role}
	result := &Result{}

	for step := 1; step <= o.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Steps = step
		o.logger.Debug("agent", "model call", map[string]interface{}{
			"step": step, "history_len": len(history),
		})

		stepResult, err := o.llmProvider.ChatStream(ctx, history, o.registry.Specs(), func(token string) {
			select {
			case events <- Event{Type: EventGenerating, Token: token}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return nil, err
		}

		result.Reply += stepResult.Content

		// Final text, no further tool requests: the turn is done.
		if len(stepResult.ToolCalls) == 0 {
			return result, nil
		}

		// Step budget exhausted while the model still wants tools.
		if step == o.maxSteps {
			o.logger.Warn("agent", "step cap reached with pending tool calls", map[string]interface{}{
				"pending": len(stepResult.ToolCalls),
			})
			return result, nil
		}

		// Fold the assistant's request into the history, then execute the
		// tools sequentially in the order the model asked for them.
		history = append(history, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   stepResult.Content,
			ToolCalls: stepResult.ToolCalls,
		})

		for _, tc := range stepResult.ToolCalls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			history = append(history, o.executeTool(ctx, call, tc, result))
		}
	}

	return result, nil
}

// executeTool runs one invocation and shapes it as a tool-role message.
// Failures become an error payload inside the message so the next model
// step can explain them, rather than aborting the turn.
func (o *Orchestrator) executeTool(ctx context.Context, call tools.CallContext, tc llm.ToolCall, result *Result) llm.Message {
	invocation := ToolInvocation{Name: tc.Name, Arguments: tc.Arguments}

	out, err := o.registry.Execute(ctx, call, tc.Name, tc.Arguments)
	if err != nil {
		o.logger.Warn("agent", "tool execution failed", map[string]interface{}{
			"tool": tc.Name, "error": err.Error(),
		})
		invocation.Error = err.Error()
		result.ToolTrace = append(result.ToolTrace, invocation)
		return llm.Message{
			Role:     llm.RoleTool,
			ToolName: tc.Name,
			Content:  fmt.Sprintf(`{"error":%q}`, err.Error()),
		}
	}

	invocation.Result = out
	result.ToolTrace = append(result.ToolTrace, invocation)

	payload, err := json.Marshal(out)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error":"unserializable tool result: %s"}`, tc.Name))
	}

	return llm.Message{
		Role:     llm.RoleTool,
		ToolName: tc.Name,
		Content:  string(payload),
	}
}
