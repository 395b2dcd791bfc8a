package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const freeAIChatEndpoint = "https://freeaichatplayground.com/api/v1/chat/completions"

var FreeAIChatModels = []string{
	"GPT-4o",
	"GPT-4o-mini",
	"o1",
	"o1-mini",
	"o3-mini",
	"o3-mini-high",
	"claude 3.5 sonnet",
	"claude 3.5 haiku",
	"gemini-2.0-flash",
	"gemini-1.5-pro",
	"deepseek-r1",
	"deepseek-v3",
	"mistral-nemo",
	"mistral-large",
	"Llama 3.3 70B",
	"Llama 3.1 405B",
	"Qwen 2.5 72B",
}

// FreeAIChat talks to freeaichatplayground.com.
type FreeAIChat struct {
	*Engine
}

func NewFreeAIChat(opts Options) (*FreeAIChat, error) {
	model, err := resolveModel("freeaichat", opts.Model, "GPT-4o", FreeAIChatModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, freeAIChatEndpoint)
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Origin":  {"https://freeaichatplayground.com"},
		"Referer": {"https://freeaichatplayground.com/"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "freeaichat",
		models:  FreeAIChatModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"model":    model,
				"messages": []chatMessage{{Role: "user", Content: prompt}},
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &FreeAIChat{Engine: eng}, nil
}
