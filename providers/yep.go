package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const yepEndpoint = "https://api.yep.com/v1/chat/completions"

// YepModels lists the model ids api.yep.com accepts.
var YepModels = []string{
	"Mixtral-8x7B-Instruct-v0.1",
}

// Yep talks to the yep.com chat API. The endpoint is cookie-gated behind a
// __Host-session cookie the first response sets; the jar carries it.
type Yep struct {
	*Engine
}

func NewYep(opts Options) (*Yep, error) {
	model, err := resolveModel("yep", opts.Model, YepModels[0], YepModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, yepEndpoint)

	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Origin":  {"https://yep.com"},
		"Referer": {"https://yep.com/"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:        "yep",
		models:      YepModels,
		impersonate: true,
		decoder:     &stream.SSEJSON{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"stream":      true,
				"max_tokens":  opts.MaxTokens,
				"top_p":       0.7,
				"temperature": 0.6,
				"messages":    []chatMessage{{Role: "user", Content: prompt}},
				"model":       model,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Yep{Engine: eng}, nil
}
