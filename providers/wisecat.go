package providers

import (
	"context"
	"net/http"

	"webscout/stream"
)

const wiseCatEndpoint = "https://wise-cat-groq.vercel.app/api/chat"

var WiseCatModels = []string{
	"chat-model-small",
	"chat-model-large",
	"chat-model-reasoning",
}

// WiseCat talks to the wise-cat Vercel deployment.
type WiseCat struct {
	*Engine
}

func NewWiseCat(opts Options) (*WiseCat, error) {
	model, err := resolveModel("wisecat", opts.Model, "chat-model-large", WiseCatModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, wiseCatEndpoint)

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful AI assistant."
	}
	hdr := http.Header{
		"Origin":  {"https://wise-cat-groq.vercel.app"},
		"Referer": {"https://wise-cat-groq.vercel.app/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:    "wisecat",
		models:  WiseCatModels,
		decoder: &stream.Vercel{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"id": "ephemeral",
				"messages": []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				"selectedChatModel": model,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &WiseCat{Engine: eng}, nil
}
