package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const gliderEndpoint = "https://glider.so/api/chat"

var GliderModels = []string{
	"chat-llama-3-1-70b",
	"chat-llama-3-1-8b",
	"chat-llama-3-2-3b",
	"deepseek-ai/DeepSeek-R1",
}

// gliderAliases maps the short names callers use to wire ids.
var gliderAliases = map[string]string{
	"llama-3.1-70b": "chat-llama-3-1-70b",
	"llama-3.1-8b":  "chat-llama-3-1-8b",
	"llama-3.2-3b":  "chat-llama-3-2-3b",
	"deepseek-r1":   "deepseek-ai/DeepSeek-R1",
}

// Glider talks to glider.so. Short model aliases resolve before roster
// validation.
type Glider struct {
	*Engine
}

func NewGlider(opts Options) (*Glider, error) {
	requested := opts.Model
	if wire, ok := gliderAliases[requested]; ok {
		requested = wire
	}
	model, err := resolveModel("glider", requested, GliderModels[0], GliderModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, gliderEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Origin":  {"https://glider.so"},
		"Referer": {"https://glider.so/"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "glider",
		models:  GliderModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"messages": []chatMessage{
					{Role: "user", Content: prompt},
					{Role: "system", Content: system},
				},
				"model": model,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Glider{Engine: eng}, nil
}
