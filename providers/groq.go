package providers

import (
	"context"
	"fmt"
	"net/http"

	"webscout"
	"webscout/stream"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

var GroqModels = []string{
	"mixtral-8x7b-32768",
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"gemma2-9b-it",
	"deepseek-r1-distill-llama-70b",
}

// Groq talks to the Groq OpenAI-compatible API. Requires an API key.
type Groq struct {
	*Engine
}

func NewGroq(opts Options) (*Groq, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("groq: api key required: %w", webscout.ErrAuth)
	}
	model, err := resolveModel("groq", opts.Model, GroqModels[0], GroqModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, groqEndpoint)
	hdr := mergeHeaders(bearer(opts.APIKey), sseHeaders())

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 1
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 1
	}

	eng, err := newEngine(opts, engineSpec{
		name:    "groq",
		models:  GroqModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"model":       model,
				"messages":    []chatMessage{{Role: "user", Content: prompt}},
				"temperature": temperature,
				"top_p":       topP,
				"max_tokens":  opts.MaxTokens,
				"stream":      true,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Groq{Engine: eng}, nil
}
