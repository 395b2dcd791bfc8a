package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const typeGPTEndpoint = "https://chat.typegpt.net/api/openai/v1/chat/completions"

var TypeGPTModels = []string{
	"claude-3-5-sonnet-20240620",
	"gpt-4o",
	"gpt-4o-mini",
	"blackboxai",
	"blackboxai-pro",
	"openchat/openchat-3.6-8b",
	"PythonAgent",
	"JavaScriptAgent",
	"ReactAgent",
	"searchgpt",
}

// TypeGPT talks to chat.typegpt.net's OpenAI-compatible relay.
type TypeGPT struct {
	*Engine
}

func NewTypeGPT(opts Options) (*TypeGPT, error) {
	model, err := resolveModel("typegpt", opts.Model, TypeGPTModels[0], TypeGPTModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, typeGPTEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.5
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 1
	}
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Origin":  {"https://chat.typegpt.net"},
		"Referer": {"https://chat.typegpt.net/"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "typegpt",
		models:  TypeGPTModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"messages": []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				"stream":      true,
				"model":       model,
				"temperature": temperature,
				"top_p":       topP,
				"max_tokens":  opts.MaxTokens,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &TypeGPT{Engine: eng}, nil
}
