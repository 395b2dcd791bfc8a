package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const deepinfraEndpoint = "https://api.deepinfra.com/v1/openai/chat/completions"

var DeepinfraModels = []string{
	"meta-llama/Llama-3.3-70B-Instruct-Turbo",
	"deepseek-ai/DeepSeek-R1-Turbo",
	"deepseek-ai/DeepSeek-R1",
	"deepseek-ai/DeepSeek-R1-Distill-Llama-70B",
	"deepseek-ai/DeepSeek-V3",
	"mistralai/Mistral-Small-24B-Instruct-2501",
	"deepseek-ai/DeepSeek-R1-Distill-Qwen-32B",
	"microsoft/phi-4",
	"meta-llama/Meta-Llama-3.1-70B-Instruct",
	"meta-llama/Meta-Llama-3.1-8B-Instruct",
	"meta-llama/Meta-Llama-3.1-405B-Instruct",
	"Qwen/Qwen2.5-Coder-32B-Instruct",
	"Qwen/Qwen2.5-72B-Instruct",
	"nvidia/Llama-3.1-Nemotron-70B-Instruct",
	"Gryphe/MythoMax-L2-13b",
}

// Deepinfra talks to the Deepinfra OpenAI-compatible API.
type Deepinfra struct {
	*Engine
}

func NewDeepinfra(opts Options) (*Deepinfra, error) {
	model, err := resolveModel("deepinfra", opts.Model, DeepinfraModels[0], DeepinfraModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, deepinfraEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Origin":             {"https://deepinfra.com"},
		"Referer":            {"https://deepinfra.com/"},
		"X-Deepinfra-Source": {"web-page"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "deepinfra",
		models:  DeepinfraModels,
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
	return &Deepinfra{Engine: eng}, nil
}
