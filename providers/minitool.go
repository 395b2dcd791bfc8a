package providers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"webscout/stream"
)

const minitoolEndpoint = "https://minitoolai.com/test_python/"

var MinitoolModels = []string{"gemini-pro"}

// Minitool talks to minitoolai.com's Gemini relay. Single-shot; the reply
// is JSON with a response field.
type Minitool struct {
	*Engine
}

func NewMinitool(opts Options) (*Minitool, error) {
	if _, err := resolveModel("minitool", opts.Model, MinitoolModels[0], MinitoolModels); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, minitoolEndpoint)
	hdr := http.Header{
		"Origin":           {"https://minitoolai.com"},
		"Referer":          {"https://minitoolai.com/Gemini-Pro/"},
		"X-Requested-With": {"XMLHttpRequest"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:   "minitool",
		models: MinitoolModels,
		decoder: &stream.WholeBody{
			DecodeBody: func(raw []byte) string {
				var reply struct {
					Response string `json:"response"`
				}
				if err := json.Unmarshal(raw, &reply); err != nil {
					return ""
				}
				return reply.Response
			},
			Clean: stream.UnescapeHTML,
		},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"utoken":  utoken(),
				"message": prompt,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Minitool{Engine: eng}, nil
}

// utoken is the per-request random token the endpoint expects.
func utoken() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
