package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const electronHubEndpoint = "https://api.electronhub.top/v1/chat/completions"

var ElectronHubModels = []string{
	"gpt-3.5-turbo",
	"gpt-4",
	"gpt-4-turbo",
	"gpt-4o",
	"gpt-4o-mini",
	"chatgpt-4o-latest",
	"o1",
	"o1-mini",
	"o3-mini",
	"o3-mini-high",
	"claude-3-opus-20240229",
	"claude-3-5-sonnet-20241022",
	"claude-3-5-haiku-20241022",
	"claude-3-7-sonnet-20250219",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-2.0-flash",
	"deepseek-v3",
	"deepseek-r1",
	"llama-3.3-70b-instruct",
	"llama-3.1-405b-instruct",
	"mistral-large-latest",
	"qwen-2.5-72b-instruct",
}

// ElectronHub talks to api.electronhub.top. Messages carry typed content
// parts rather than bare strings.
type ElectronHub struct {
	*Engine
}

func NewElectronHub(opts Options) (*ElectronHub, error) {
	model, err := resolveModel("electronhub", opts.Model, "gpt-4o-mini", ElectronHubModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, electronHubEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You're helpful assistant that can help me with my questions."
	}
	hdr := mergeHeaders(bearer(opts.APIKey), sseHeaders())

	eng, err := newEngine(opts, engineSpec{
		name:    "electronhub",
		models:  ElectronHubModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"model": model,
				"messages": []map[string]any{
					{"role": "system", "content": system},
					{"role": "user", "content": []map[string]string{
						{"type": "text", "text": prompt},
					}},
				},
				"stream":         true,
				"stream_options": map[string]bool{"include_usage": true},
				"max_tokens":     opts.MaxTokens,
				"web_search":     false,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &ElectronHub{Engine: eng}, nil
}
