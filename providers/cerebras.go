package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"webscout"
	"webscout/stream"
)

const (
	cerebrasKeyEndpoint  = "https://inference.cerebras.ai/api/graphql"
	cerebrasChatEndpoint = "https://api.cerebras.ai/v1/chat/completions"
)

var CerebrasModels = []string{
	"llama3.1-8b",
	"llama3.1-70b",
	"llama-3.3-70b",
}

// Cerebras talks to the Cerebras inference API. Auth bootstraps from a
// browser cookie export: the cookies buy a demo API key over GraphQL, and
// the key signs the chat calls.
type Cerebras struct {
	*Engine

	mu  sync.Mutex
	key string
}

func NewCerebras(opts Options) (*Cerebras, error) {
	if opts.CookiePath == "" && opts.APIKey == "" {
		return nil, fmt.Errorf("cerebras: cookie file or api key required: %w", webscout.ErrAuth)
	}
	model, err := resolveModel("cerebras", opts.Model, CerebrasModels[0], CerebrasModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	keyEndpoint := endpointURL(opts.BaseURL, cerebrasKeyEndpoint)
	chatEndpoint := endpointURL(opts.BaseURL, cerebrasChatEndpoint)

	c := &Cerebras{key: opts.APIKey}

	system := opts.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}

	eng, err := newEngine(opts, engineSpec{
		name:    "cerebras",
		models:  CerebrasModels,
		decoder: &stream.SSEJSON{Logger: opts.Logger},
		prepare: func(ctx context.Context) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.key != "" {
				return nil
			}
			key, err := c.fetchDemoKey(ctx, keyEndpoint, opts.CookiePath)
			if err != nil {
				return err
			}
			c.key = key
			return nil
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			c.mu.Lock()
			key := c.key
			c.mu.Unlock()
			hdr := mergeHeaders(bearer(key), sseHeaders())
			return postJSON(ctx, chatEndpoint, hdr, map[string]any{
				"model": model,
				"messages": []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				"stream":     true,
				"max_tokens": opts.MaxTokens,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	c.Engine = eng
	return c, nil
}

// fetchDemoKey trades the exported browser cookies for a demo API key.
func (c *Cerebras) fetchDemoKey(ctx context.Context, endpoint, cookiePath string) (string, error) {
	if err := c.Session().InstallCookies(cookiePath, endpoint); err != nil {
		return "", fmt.Errorf("cerebras: %w: %w", webscout.ErrAuth, err)
	}
	req, err := postJSON(ctx, endpoint, nil, map[string]any{
		"operationName": "GetMyDemoApiKey",
		"variables":     map[string]any{},
		"query":         "query GetMyDemoApiKey {\n  GetMyDemoApiKey\n}",
	})
	if err != nil {
		return "", fmt.Errorf("cerebras: %w", err)
	}
	resp, err := c.Session().Do(req, false)
	if err != nil {
		return "", fmt.Errorf("cerebras: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("cerebras: key exchange status %d: %w", resp.StatusCode, webscout.ErrAuth)
	}
	var reply struct {
		Data struct {
			GetMyDemoApiKey string `json:"GetMyDemoApiKey"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Raw, &reply); err != nil {
		return "", fmt.Errorf("cerebras: key exchange: %w: %w", webscout.ErrBadResponse, err)
	}
	if reply.Data.GetMyDemoApiKey == "" {
		return "", fmt.Errorf("cerebras: empty demo key: %w", webscout.ErrAuth)
	}
	return reply.Data.GetMyDemoApiKey, nil
}
