package providers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"webscout/stream"
)

const openGPTEndpoint = "https://opengpts-example-vz4y4ooboq-uc.a.run.app/runs/stream"

var OpenGPTModels = []string{"default"}

// OpenGPT talks to the LangChain opengpts reference deployment. Frames are
// SSE whose data is a message array; each frame resends the assistant
// message so far, so the decoder emits suffix diffs.
type OpenGPT struct {
	*Engine
}

// NewOpenGPT builds the adapter. AssistantID comes from APIKey when set so
// callers can target their own deployment's assistant.
func NewOpenGPT(opts Options) (*OpenGPT, error) {
	if _, err := resolveModel("opengpt", opts.Model, OpenGPTModels[0], OpenGPTModels); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, openGPTEndpoint)

	assistantID := opts.APIKey
	if assistantID == "" {
		assistantID = "65940acff94777010aa6b796"
	}
	userID := uuid.NewString()
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Cookie": {"opengpts_user_id=" + userID},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "opengpt",
		models:  OpenGPTModels,
		decoder: &stream.SSEArray{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"input": []map[string]any{
					{
						"content":           prompt,
						"additional_kwargs": map[string]any{},
						"type":              "human",
						"example":           false,
					},
				},
				"assistant_id": assistantID,
				"thread_id":    "",
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &OpenGPT{Engine: eng}, nil
}
