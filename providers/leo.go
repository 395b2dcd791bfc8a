package providers

import (
	"context"
	"fmt"
	"net/http"

	"webscout/stream"
)

const (
	leoEndpoint = "https://ai-chat.bsg.brave.com/v1/complete"
	leoKey      = "qztbjzBqJueQZLFkwTTJrieu8Vw3789u"
)

var LeoModels = []string{
	"llama-2-13b-chat",
}

const leoSystemPrompt = "\n\nYour name is Leo, a helpful" +
	"respectful and honest AI assistant created by the company Brave. You will be replying to a user of the Brave browser. " +
	"Always respond in a neutral tone. Be polite and courteous. Answer concisely in no more than 50-80 words." +
	"\n\nPlease ensure that your responses are socially unbiased and positive in nature." +
	"If a question does not make any sense, or is not factually coherent, explain why instead of answering something not correct. " +
	"If you don't know the answer to a question, please don't share false information.\n"

// Leo talks to Brave's assistant endpoint. The prompt rides a llama-2
// instruct envelope; completions arrive as SSE JSON with a completion
// field. Stop sequences are handled server side.
type Leo struct {
	*Engine
}

func NewLeo(opts Options) (*Leo, error) {
	model, err := resolveModel("leo", opts.Model, LeoModels[0], LeoModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, leoEndpoint)

	key := opts.APIKey
	if key == "" {
		key = leoKey
	}
	system := opts.SystemPrompt
	if system == "" {
		system = leoSystemPrompt
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 0.999
	}
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"X-Brave-Key": {key},
	})

	eng, err := newEngine(opts, engineSpec{
		name:    "leo",
		models:  LeoModels,
		browser: "firefox",
		decoder: &stream.SSEJSON{
			Logger:  opts.Logger,
			Extract: stream.FieldContent("completion"),
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"max_tokens_to_sample": opts.MaxTokens,
				"model":                model,
				"prompt":               fmt.Sprintf("<s>[INST] <<SYS>>%s<</SYS>>%s [/INST]", system, prompt),
				"stream":               true,
				"top_k":                -1,
				"top_p":                topP,
				"temperature":          temperature,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Leo{Engine: eng}, nil
}
