package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"edudash-be/internal/pkg/apperrors"
	"edudash-be/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 300 * time.Second, // streamed calls stay open across tool rounds
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Tools    []ollamaTool    `json:"tools,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"`
}

type ollamaTool struct {
	Type     string         `json:"type"`
	Function ollamaFunction `json:"function"`
}

type ollamaFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type ollamaToolCall struct {
	Function ollamaToolCallFunction `json:"function"`
}

type ollamaToolCallFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	res, err := o.send(ctx, history, nil, false, nil, opts...)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

func (o *OllamaProvider) ChatStream(
	ctx context.Context,
	history []llm.Message,
	tools []llm.ToolSpec,
	onToken func(string),
	opts ...llm.Option,
) (*llm.StreamResult, error) {
	return o.send(ctx, history, tools, true, onToken, opts...)
}

func (o *OllamaProvider) send(
	ctx context.Context,
	history []llm.Message,
	tools []llm.ToolSpec,
	stream bool,
	onToken func(string),
	opts ...llm.Option,
) (*llm.StreamResult, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaChatRequest{
		Model:    model,
		Messages: toOllamaMessages(history),
		Stream:   stream,
		Tools:    toOllamaTools(tools),
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, &apperrors.ModelServiceError{Provider: "ollama", Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, &apperrors.ModelServiceError{Provider: "ollama", Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, &apperrors.ModelServiceError{Provider: "ollama", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body bytes.Buffer
		body.ReadFrom(resp.Body)
		return nil, &apperrors.ModelServiceError{
			Provider: "ollama",
			Err:      fmt.Errorf("status %d, body: %s", resp.StatusCode, body.String()),
		}
	}

	// Ollama streams newline-delimited JSON objects until done=true. The
	// non-streaming path is a single object, which the same scan handles.
	result := &llm.StreamResult{}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return nil, &apperrors.ModelServiceError{Provider: "ollama", Err: fmt.Errorf("unmarshal chunk: %w", err)}
		}

		if chunk.Message.Content != "" {
			result.Content += chunk.Message.Content
			if onToken != nil {
				onToken(chunk.Message.Content)
			}
		}

		for _, tc := range chunk.Message.ToolCalls {
			result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}

		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &apperrors.ModelServiceError{Provider: "ollama", Err: fmt.Errorf("read stream: %w", err)}
	}

	return result, nil
}

func toOllamaMessages(history []llm.Message) []ollamaMessage {
	messages := make([]ollamaMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		out := ollamaMessage{
			Role:     role,
			Content:  msg.Content,
			ToolName: msg.ToolName,
		}
		for _, tc := range msg.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, ollamaToolCall{
				Function: ollamaToolCallFunction{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		messages[i] = out
	}
	return messages
}

func toOllamaTools(tools []llm.ToolSpec) []ollamaTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]ollamaTool, len(tools))
	for i, t := range tools {
		out[i] = ollamaTool{
			Type: "function",
			Function: ollamaFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return out
}
