package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"edudash-be/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPreservesOrder(t *testing.T) {
	reg := NewRegistry(
		Tool{Name: "b_tool", Description: "second", Parameters: ObjectSchema(nil)},
		Tool{Name: "a_tool", Description: "first", Parameters: ObjectSchema(nil)},
	)

	specs := reg.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "b_tool", specs[0].Name)
	assert.Equal(t, "a_tool", specs[1].Name)
}

func TestRegistryExecute(t *testing.T) {
	callerId := uuid.New()
	reg := NewRegistry(Tool{
		Name:       "echo",
		Parameters: ObjectSchema(map[string]any{"msg": map[string]any{"type": "string"}}),
		Execute: func(ctx context.Context, call CallContext, args json.RawMessage) (any, error) {
			var params struct {
				Msg string `json:"msg"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return nil, err
			}
			return map[string]any{"msg": params.Msg, "caller": call.UserID}, nil
		},
	})

	result, err := reg.Execute(context.Background(), CallContext{UserID: callerId}, "echo", json.RawMessage(`{"msg":"hi"}`))
	require.NoError(t, err)

	out := result.(map[string]any)
	assert.Equal(t, "hi", out["msg"])
	assert.Equal(t, callerId, out["caller"])
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), CallContext{}, "nope", nil)
	assert.ErrorIs(t, err, apperrors.ErrToolExecution)
}

func TestRegistryExecuteWrapsHandlerError(t *testing.T) {
	reg := NewRegistry(Tool{
		Name: "broken",
		Execute: func(ctx context.Context, call CallContext, args json.RawMessage) (any, error) {
			return nil, errors.New("db unavailable")
		},
	})

	_, err := reg.Execute(context.Background(), CallContext{}, "broken", nil)

	var toolErr *apperrors.ToolExecutionError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "broken", toolErr.Tool)
}

func TestObjectSchema(t *testing.T) {
	schema := ObjectSchema(map[string]any{
		"user_id": map[string]any{"type": "string"},
	}, "user_id")

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"user_id"}, schema["required"])
}
