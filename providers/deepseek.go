package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const deepSeekEndpoint = "https://www.deepseekapp.io/v1/chat/completions"

var DeepSeekModels = []string{
	"deepseek-chat",
	"deepseek-reasoner",
}

// DeepSeek talks to the deepseekapp.io relay. The relay ships a fixed
// bearer token; APIKey overrides it.
type DeepSeek struct {
	*Engine
}

func NewDeepSeek(opts Options) (*DeepSeek, error) {
	model, err := resolveModel("deepseek", opts.Model, DeepSeekModels[0], DeepSeekModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, deepSeekEndpoint)

	key := opts.APIKey
	if key == "" {
		key = "skgadi_mare_2_seater"
	}
	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}
	hdr := mergeHeaders(bearer(key), sseHeaders())

	eng, err := newEngine(opts, engineSpec{
		name:    "deepseek",
		models:  DeepSeekModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"model": model,
				"messages": []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				"stream": true,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &DeepSeek{Engine: eng}, nil
}
