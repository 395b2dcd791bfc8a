package providers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"webscout/stream"
)

const akashEndpoint = "https://chat.akash.network/api/chat"

var AkashGPTModels = []string{
	"Meta-Llama-3-3-70B-Instruct",
	"DeepSeek-R1",
	"Meta-Llama-3-1-405B-Instruct-FP8",
	"Meta-Llama-3-2-3B-Instruct",
	"Meta-Llama-3-1-8B-Instruct-FP8",
	"mistral",
	"nous-hermes2-mixtral",
	"dolphin-mixtral",
}

// AkashGPT talks to chat.akash.network.
type AkashGPT struct {
	*Engine
}

func NewAkashGPT(opts Options) (*AkashGPT, error) {
	model, err := resolveModel("akash", opts.Model, AkashGPTModels[0], AkashGPTModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, akashEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.85
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 1
	}
	hdr := http.Header{
		"Origin":  {"https://chat.akash.network"},
		"Referer": {"https://chat.akash.network/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:        "akash",
		models:      AkashGPTModels,
		impersonate: true,
		decoder:     &stream.Vercel{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"id": uuid.NewString(),
				"messages": []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				"model":       model,
				"temperature": temperature,
				"topP":        topP,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &AkashGPT{Engine: eng}, nil
}
