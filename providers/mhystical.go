package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"webscout/stream"
	"webscout/transport"
)

const mhysticalEndpoint = "https://api.mhystical.cc/v1/completions"

var MhysticalModels = []string{"gpt-4", "gpt-3.5-turbo"}

// Mhystical talks to api.mhystical.cc. The reply is a complete OpenAI
// completion object; streaming is emulated from the buffered body.
type Mhystical struct {
	*Engine
}

func NewMhystical(opts Options) (*Mhystical, error) {
	model, err := resolveModel("mhystical", opts.Model, MhysticalModels[0], MhysticalModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, mhysticalEndpoint)

	key := opts.APIKey
	if key == "" {
		key = "mhystical"
	}
	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}
	hdr := http.Header{
		"X-API-Key": {key},
	}

	eng, err := newEngine(opts, engineSpec{
		name:   "mhystical",
		models: MhysticalModels,
		decoder: &stream.WholeBody{
			DecodeBody: func(raw []byte) string {
				var reply struct {
					Choices []struct {
						Message struct {
							Content string `json:"content"`
						} `json:"message"`
					} `json:"choices"`
				}
				if err := json.Unmarshal(raw, &reply); err != nil || len(reply.Choices) == 0 {
					return transport.DecodeBody(raw)
				}
				return reply.Choices[0].Message.Content
			},
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"messages": []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				"model": model,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Mhystical{Engine: eng}, nil
}
