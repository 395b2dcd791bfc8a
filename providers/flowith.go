package providers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"webscout/stream"
	"webscout/transport"
)

const flowithEndpoint = "https://edge.flowith.net/ai/chat?mode=general"

var FlowithModels = []string{
	"gpt-4o-mini",
	"deepseek-chat",
	"deepseek-reasoner",
	"claude-3.5-haiku",
	"llama-3.2-11b",
	"llama-3.2-90b",
	"gemini-2.0-flash",
	"o1",
	"o3-mini",
	"gpt-4o",
	"claude-3.5-sonnet",
	"gemini-2.0-pro",
}

// Flowith talks to edge.flowith.net. The reply is the raw body; some
// models ship latin-1 bytes, and reasoning models prepend a think block.
type Flowith struct {
	*Engine
}

func NewFlowith(opts Options) (*Flowith, error) {
	model, err := resolveModel("flowith", opts.Model, "claude-3.5-haiku", FlowithModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, flowithEndpoint)

	nodeID := uuid.NewString()
	hdr := http.Header{
		"Origin":  {"https://flowith.io"},
		"Referer": {"https://flowith.io/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:   "flowith",
		models: FlowithModels,
		decoder: &stream.WholeBody{
			DecodeBody: transport.DecodeBody,
			Clean: func(text string) string {
				return strings.TrimSpace(stream.StripThink(text))
			},
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"model":    model,
				"messages": []chatMessage{{Role: "user", Content: prompt}},
				"stream":   true,
				"nodeId":   nodeID,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Flowith{Engine: eng}, nil
}
