package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const xjaiEndpoint = "https://p1api.xjai.pro/freeapi/chat-process"

var XjaiModels = []string{"gpt-3.5-turbo"}

// Xjai talks to p1api.xjai.pro. The body toggles between noise and answer
// text at a fixed sentinel; injected ad lines are dropped by the decoder.
type Xjai struct {
	*Engine
}

func NewXjai(opts Options) (*Xjai, error) {
	if _, err := resolveModel("xjai", opts.Model, XjaiModels[0], XjaiModels); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, xjaiEndpoint)

	system := opts.SystemPrompt
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.8
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 1
	}
	hdr := http.Header{
		"Origin":  {"https://x.xjai.pro"},
		"Referer": {"https://x.xjai.pro/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:   "xjai",
		models: XjaiModels,
		decoder: &stream.SentinelSplit{
			Sentinel: stream.XjaiSentinel,
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"prompt":        prompt + "\n\nReply in English Only",
				"systemMessage": system,
				"temperature":   temperature,
				"top_p":         topP,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Xjai{Engine: eng}, nil
}
