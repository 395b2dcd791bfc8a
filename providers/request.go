package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// chatMessage is the role/content pair most JSON chat APIs share.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// postJSON builds a JSON POST with the vendor's static headers applied.
// Identity headers are overlaid later by the session.
func postJSON(ctx context.Context, rawURL string, hdr http.Header, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

// endpointURL resolves an adapter's endpoint. A BaseURL override keeps the
// default's path and query so tests can point adapters at httptest servers.
func endpointURL(override, def string) string {
	if override == "" {
		return def
	}
	u, err := url.Parse(def)
	if err != nil {
		return override
	}
	resolved := strings.TrimRight(override, "/") + u.Path
	if u.RawQuery != "" {
		resolved += "?" + u.RawQuery
	}
	return resolved
}

// sseHeaders is the accept set streaming endpoints expect.
func sseHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/event-stream")
	return h
}

// bearer builds an Authorization header.
func bearer(key string) http.Header {
	h := http.Header{}
	if key != "" {
		h.Set("Authorization", "Bearer "+key)
	}
	return h
}

func mergeHeaders(dst http.Header, src http.Header) http.Header {
	for k, vs := range src {
		for _, v := range vs {
			dst.Set(k, v)
		}
	}
	return dst
}
