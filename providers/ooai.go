package providers

import (
	"context"
	"net/http"
	"net/url"

	"webscout/stream"
)

const ooaiEndpoint = "https://oo.ai/api/search"

var OOAiModels = []string{"default"}

// OOAi talks to the oo.ai answer engine. The query rides GET parameters;
// frames carry a top-level content field with webblock markup stripped.
type OOAi struct {
	*Engine
}

func NewOOAi(opts Options) (*OOAi, error) {
	if _, err := resolveModel("ooai", opts.Model, OOAiModels[0], OOAiModels); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, ooaiEndpoint)
	hdr := mergeHeaders(sseHeaders(), http.Header{
		"Referer":       {"https://oo.ai/"},
		"Cache-Control": {"no-cache"},
	})

	eng, err := newEngine(opts, engineSpec{
		name:        "ooai",
		models:      OOAiModels,
		impersonate: true,
		decoder: &stream.SSEJSON{
			Logger:  opts.Logger,
			Extract: stream.FieldContent("content"),
			Clean:   stream.StripWebBlocks,
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			params := url.Values{}
			params.Set("q", prompt)
			params.Set("lang", "en-US")
			params.Set("tz", "Asia/Calcutta")
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
			if err != nil {
				return nil, err
			}
			for k, vs := range hdr {
				for _, v := range vs {
					req.Header.Set(k, v)
				}
			}
			return req, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &OOAi{Engine: eng}, nil
}
