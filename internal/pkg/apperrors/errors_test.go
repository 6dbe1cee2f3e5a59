package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"auth", &AuthError{Reason: "missing token"}, ErrAuth},
		{"embedding", &EmbeddingServiceError{Provider: "gemini", Err: errors.New("429")}, ErrEmbeddingService},
		{"tool", &ToolExecutionError{Tool: "get_user_courses", Err: errors.New("db down")}, ErrToolExecution},
		{"model", &ModelServiceError{Provider: "ollama", Err: errors.New("timeout")}, ErrModelService},
		{"persistence", &PersistenceError{Op: "append turn", Err: errors.New("tx aborted")}, ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.category)
			// Wrapping must not break the category.
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.category)
		})
	}
}

func TestToolExecutionErrorAs(t *testing.T) {
	var target *ToolExecutionError
	err := fmt.Errorf("step 2: %w", &ToolExecutionError{Tool: "get_average_grade", Err: errors.New("no rows")})
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, "get_average_grade", target.Tool)
}
