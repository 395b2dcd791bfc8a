package providers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"webscout/stream"
)

const veniceEndpoint = "https://venice.ai/api/inference/chat"

var VeniceModels = []string{
	"llama-3.3-70b",
	"llama-3.2-3b-akash",
	"qwen2dot5-coder-32b",
}

// Venice talks to venice.ai. The body is line-delimited JSON where content
// frames carry kind == "content".
type Venice struct {
	*Engine
}

func NewVenice(opts Options) (*Venice, error) {
	model, err := resolveModel("venice", opts.Model, VeniceModels[0], VeniceModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, veniceEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful AI assistant."
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.8
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 0.9
	}
	hdr := http.Header{
		"Origin":  {"https://venice.ai"},
		"Referer": {"https://venice.ai/chat"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:        "venice",
		models:      VeniceModels,
		impersonate: true,
		decoder: &stream.LineJSON{
			Logger: opts.Logger,
			Extract: func(data []byte) (string, bool) {
				var frame struct {
					Kind    string `json:"kind"`
					Content string `json:"content"`
				}
				if err := json.Unmarshal(data, &frame); err != nil {
					return "", false
				}
				if frame.Kind != "content" {
					return "", true
				}
				return frame.Content, true
			},
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"requestId":                 requestID(7),
				"modelId":                   model,
				"prompt":                    []chatMessage{{Role: "user", Content: prompt}},
				"systemPrompt":              system,
				"conversationType":          "text",
				"temperature":               temperature,
				"webEnabled":                true,
				"topP":                      topP,
				"includeVeniceSystemPrompt": false,
				"isCharacter":               false,
				"clientProcessingTime":      2000,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Venice{Engine: eng}, nil
}

// requestID returns n hex characters of randomness.
func requestID(n int) string {
	buf := make([]byte, (n+1)/2)
	rand.Read(buf)
	return hex.EncodeToString(buf)[:n]
}
