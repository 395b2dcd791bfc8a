package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const ollamaEndpoint = "http://localhost:11434/api/chat"

var OllamaModels = []string{
	"llama3",
	"llama3.1",
	"llama3.2",
	"mistral",
	"qwen2.5",
	"phi3",
	"gemma2",
	"deepseek-r1",
}

// Ollama talks to a local Ollama daemon. Models outside the roster must be
// added to OllamaModels before use.
type Ollama struct {
	*Engine
}

func NewOllama(opts Options) (*Ollama, error) {
	model, err := resolveModel("ollama", opts.Model, OllamaModels[0], OllamaModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, ollamaEndpoint)

	system := opts.SystemPrompt
	eng, err := newEngine(opts, engineSpec{
		name:    "ollama",
		models:  OllamaModels,
		decoder: &stream.Ollama{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			messages := []chatMessage{}
			if system != "" {
				messages = append(messages, chatMessage{Role: "system", Content: system})
			}
			messages = append(messages, chatMessage{Role: "user", Content: prompt})
			return postJSON(ctx, endpoint, http.Header{}, map[string]any{
				"model":    model,
				"messages": messages,
				"stream":   true,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Ollama{Engine: eng}, nil
}
