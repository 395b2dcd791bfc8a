package providers

import (
	"context"
	"fmt"
	"net/http"

	"webscout"
	"webscout/stream"
)

const llamaEndpoint = "https://api.sambanova.ai/v1/chat/completions"

var LlamaModels = []string{
	"Meta-Llama-3.1-8B-Instruct",
	"Meta-Llama-3.1-70B-Instruct",
	"Meta-Llama-3.1-405B-Instruct",
	"Meta-Llama-3.2-1B-Instruct",
	"Meta-Llama-3.2-3B-Instruct",
	"Meta-Llama-3.3-70B-Instruct",
	"DeepSeek-R1-Distill-Llama-70B",
	"Llama-3.1-Tulu-3-405B",
	"Qwen2.5-72B-Instruct",
	"Qwen2.5-Coder-32B-Instruct",
	"QwQ-32B-Preview",
}

// Llama talks to SambaNova's hosted llama endpoints. Requires an API key.
type Llama struct {
	*Engine
}

func NewLlama(opts Options) (*Llama, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("llama: api key required: %w", webscout.ErrAuth)
	}
	model, err := resolveModel("llama", opts.Model, LlamaModels[0], LlamaModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, llamaEndpoint)
	hdr := mergeHeaders(bearer(opts.APIKey), sseHeaders())

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	eng, err := newEngine(opts, engineSpec{
		name:    "llama",
		models:  LlamaModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"model":       model,
				"messages":    []chatMessage{{Role: "user", Content: prompt}},
				"max_tokens":  opts.MaxTokens,
				"temperature": temperature,
				"stream":      true,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Llama{Engine: eng}, nil
}
