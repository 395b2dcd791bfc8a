package providers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"webscout/stream"
)

const talkAIEndpoint = "https://talkai.info/chat/send/"

var TalkAIModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-3.5-turbo",
}

// TalkAI talks to talkai.info. Frames are SSE whose data payload is the
// raw text; an "event: trylimit" frame ends the stream.
type TalkAI struct {
	*Engine
}

func NewTalkAI(opts Options) (*TalkAI, error) {
	model, err := resolveModel("talkai", opts.Model, TalkAIModels[0], TalkAIModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, talkAIEndpoint)
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Origin":  {"https://talkai.info"},
		"Referer": {"https://talkai.info/chat/"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "talkai",
		models:  TalkAIModels,
		decoder: &stream.SSEPlain{StopEvent: "trylimit"},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"type": "chat",
				"messagesHistory": []map[string]string{
					{
						"id":      uuid.NewString(),
						"from":    "you",
						"content": prompt,
					},
				},
				"settings": map[string]string{"model": model},
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &TalkAI{Engine: eng}, nil
}
