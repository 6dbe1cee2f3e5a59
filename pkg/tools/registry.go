package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"edudash-be/internal/pkg/apperrors"
	"edudash-be/pkg/llm"
)

// Registry is an explicit, ordered tool catalog. It is constructed once
// at bootstrap and passed into the orchestrator — no ambient lookup.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry(catalog ...Tool) *Registry {
	r := &Registry{
		tools: make(map[string]Tool, len(catalog)),
	}
	for _, t := range catalog {
		if _, exists := r.tools[t.Name]; exists {
			continue
		}
		r.order = append(r.order, t.Name)
		r.tools[t.Name] = t
	}
	return r
}

// All returns the catalog in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Specs converts the catalog into the provider-facing tool description.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return specs
}

// Execute runs a single named tool. Unknown names and handler failures
// both come back as ToolExecutionError so the caller can fold them into
// the transcript instead of aborting the turn.
func (r *Registry) Execute(ctx context.Context, call CallContext, name string, args json.RawMessage) (any, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, &apperrors.ToolExecutionError{
			Tool: name,
			Err:  fmt.Errorf("unknown tool"),
		}
	}

	result, err := tool.Execute(ctx, call, args)
	if err != nil {
		return nil, &apperrors.ToolExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
