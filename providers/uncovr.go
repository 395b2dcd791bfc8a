package providers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"webscout/stream"
)

const uncovrEndpoint = "https://uncovr.app/api/workflows/chat"

var UncovrAIModels = []string{
	"default",
	"gpt-4o-mini",
	"gemini-2-flash",
	"o3-mini",
	"claude-3-7-sonnet",
	"gpt-4o",
	"claude-3-5-sonnet-v2",
	"groq-llama-3-1-8b",
	"deepseek-r1-distill-llama-70b",
	"deepseek-r1-distill-qwen-32b",
	"gemini-2-flash-lite-preview",
	"qwen-qwq-32b",
}

// UncovrAI talks to uncovr.app's chat workflow.
type UncovrAI struct {
	*Engine
}

func NewUncovrAI(opts Options) (*UncovrAI, error) {
	model, err := resolveModel("uncovr", opts.Model, "default", UncovrAIModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, uncovrEndpoint)

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.5
	}
	chatID := uuid.NewString()
	hdr := http.Header{
		"Origin":  {"https://uncovr.app"},
		"Referer": {"https://uncovr.app/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:    "uncovr",
		models:  UncovrAIModels,
		decoder: &stream.Vercel{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"content":       prompt,
				"chatId":        chatID,
				"userMessageId": uuid.NewString(),
				"ai_config": map[string]any{
					"selectedFocus": []string{"web"},
					"selectedTools": []string{"quick-cards"},
					"agentId":       "chat",
					"modelId":       model,
					"temperature":   temperature,
					"creativity":    "balanced",
				},
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &UncovrAI{Engine: eng}, nil
}
