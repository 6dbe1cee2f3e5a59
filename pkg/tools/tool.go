package tools

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// CallContext carries the ambient caller identity into tool execution.
// Tools that scope to "the current user" read it from here, never from
// model-supplied arguments.
type CallContext struct {
	UserID uuid.UUID
	Role   string
}

// Tool is one named capability the model may invoke. Parameters is a
// JSON-schema object describing the accepted arguments. Execute receives
// the raw argument payload the model supplied; results must be
// JSON-serializable. Tools never invoke other tools — composition is the
// orchestrator's job.
type Tool struct {
	Name        string
	Description string

	// Trigger is the per-tool rule injected into the system prompt
	// ("when the user asks about X, always use this tool").
	Trigger string

	Parameters map[string]any

	Execute func(ctx context.Context, call CallContext, args json.RawMessage) (any, error)
}

// ObjectSchema builds the common JSON-schema shape for tool parameters.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
