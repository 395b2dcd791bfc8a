package providers

import (
	"context"
	"net/http"
	"sort"

	"webscout/stream"
)

const blackboxEndpoint = "https://api.blackbox.ai/api/chat"

// blackboxAliases maps caller-facing names to the wire ids blackbox.ai
// expects. Wire ids are also accepted directly.
var blackboxAliases = map[string]string{
	"deepseek-v3":       "deepseek-ai/DeepSeek-V3",
	"deepseek-r1":       "deepseek-ai/DeepSeek-R1",
	"deepseek-chat":     "deepseek-ai/deepseek-llm-67b-chat",
	"mixtral-small-28b": "mistralai/Mistral-Small-24B-Instruct-2501",
	"dbrx-instruct":     "databricks/dbrx-instruct",
	"qwq-32b":           "Qwen/QwQ-32B-Preview",
	"hermes-2-dpo":      "NousResearch/Nous-Hermes-2-Mixtral-8x7B-DPO",
	"claude-3.5-sonnet": "claude-sonnet-3.5",
	"gemini-1.5-flash":  "gemini-1.5-flash",
	"gemini-1.5-pro":    "gemini-pro",
	"gemini-2.0-flash":  "Gemini-Flash-2.0",
}

// BlackboxModels lists the caller-facing model names.
var BlackboxModels = func() []string {
	names := make([]string, 0, len(blackboxAliases))
	for name := range blackboxAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// Blackbox talks to api.blackbox.ai. The body is unframed text lines.
type Blackbox struct {
	*Engine
}

func NewBlackbox(opts Options) (*Blackbox, error) {
	requested := opts.Model
	wire := blackboxAliases["deepseek-v3"]
	if requested != "" {
		if mapped, ok := blackboxAliases[requested]; ok {
			wire = mapped
		} else {
			found := false
			for _, w := range blackboxAliases {
				if w == requested {
					wire = requested
					found = true
					break
				}
			}
			if !found {
				if _, err := resolveModel("blackbox", requested, "", BlackboxModels); err != nil {
					return nil, err
				}
			}
		}
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, blackboxEndpoint)
	hdr := http.Header{
		"Origin":  {"https://www.blackbox.ai"},
		"Referer": {"https://www.blackbox.ai/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:        "blackbox",
		models:      BlackboxModels,
		impersonate: true,
		decoder:     &stream.PlainLines{},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"messages":   []chatMessage{{Role: "user", Content: prompt}},
				"model":      wire,
				"max_tokens": opts.MaxTokens,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Blackbox{Engine: eng}, nil
}
