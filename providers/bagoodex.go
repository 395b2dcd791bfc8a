package providers

import (
	"context"
	"net/http"

	"webscout/stream"
	"webscout/transport"
)

const bagoodexEndpoint = "https://bagoodex.io/front-api/chat"

var BagoodexModels = []string{"default"}

// Bagoodex talks to bagoodex.io. The reply is the whole body as text.
type Bagoodex struct {
	*Engine
}

func NewBagoodex(opts Options) (*Bagoodex, error) {
	if _, err := resolveModel("bagoodex", opts.Model, BagoodexModels[0], BagoodexModels); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, bagoodexEndpoint)
	hdr := http.Header{
		"Origin":  {"https://bagoodex.io"},
		"Referer": {"https://bagoodex.io/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:   "bagoodex",
		models: BagoodexModels,
		decoder: &stream.WholeBody{
			DecodeBody: transport.DecodeBody,
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"prompt": "You are AI",
				"messages": []chatMessage{
					{Role: "assistant", Content: "Hi, this is chatgpt, let's talk"},
				},
				"input": prompt,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Bagoodex{Engine: eng}, nil
}
