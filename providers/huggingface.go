package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"

	"github.com/google/uuid"

	"webscout"
	"webscout/stream"
)

const hfOrigin = "https://huggingface.co"

var HuggingFaceChatModels = []string{
	"meta-llama/Llama-3.3-70B-Instruct",
	"Qwen/Qwen2.5-72B-Instruct",
	"CohereForAI/c4ai-command-r-plus-08-2024",
	"deepseek-ai/DeepSeek-R1-Distill-Qwen-32B",
	"nvidia/Llama-3.1-Nemotron-70B-Instruct-HF",
	"Qwen/QwQ-32B",
	"Qwen/Qwen2.5-Coder-32B-Instruct",
	"meta-llama/Llama-3.2-11B-Vision-Instruct",
	"NousResearch/Hermes-3-Llama-3.1-8B",
	"mistralai/Mistral-Nemo-Instruct-2407",
	"microsoft/Phi-3.5-mini-instruct",
	"meta-llama/Llama-3.1-8B-Instruct",
}

// HuggingFaceChat talks to huggingface.co/chat. Auth comes from a browser
// cookie export. A conversation is created server side per instance; each
// turn fetches the latest message id and posts the prompt as a multipart
// form with a JSON fallback when the endpoint rejects the form encoding.
//
// The service keeps conversation state itself, so local history assembly
// is redundant; prompts pass through bare.
type HuggingFaceChat struct {
	*Engine

	origin string
	model  string

	mu             sync.Mutex
	conversationID string
	useJSON        bool
}

func NewHuggingFaceChat(opts Options) (*HuggingFaceChat, error) {
	if opts.CookiePath == "" {
		return nil, fmt.Errorf("huggingface: cookie file required: %w", webscout.ErrAuth)
	}
	model, err := resolveModel("huggingface", opts.Model, "Qwen/QwQ-32B", HuggingFaceChatModels)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	// The upstream threads history itself.
	opts.DisableConversation = true

	h := &HuggingFaceChat{
		origin: hfOrigin,
		model:  model,
	}
	if opts.BaseURL != "" {
		h.origin = opts.BaseURL
	}

	eng, err := newEngine(opts, engineSpec{
		name:        "huggingface",
		models:      HuggingFaceChatModels,
		impersonate: true,
		decoder:     &stream.HuggingFace{Logger: opts.Logger},
		prepare: func(ctx context.Context) error {
			if err := h.Session().InstallCookies(opts.CookiePath, h.origin); err != nil {
				return fmt.Errorf("huggingface: %w: %w", webscout.ErrAuth, err)
			}
			return h.createConversation(ctx)
		},
		build: h.buildTurn,
		fallback: func(status int) bool {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.useJSON {
				return false
			}
			h.useJSON = true
			return true
		},
	})
	if err != nil {
		return nil, err
	}
	h.Engine = eng
	return h, nil
}

// createConversation books a server-side conversation for the model.
func (h *HuggingFaceChat) createConversation(ctx context.Context) error {
	req, err := postJSON(ctx, h.origin+"/chat/conversation", http.Header{
		"Origin":  {hfOrigin},
		"Referer": {hfOrigin + "/chat/models/" + h.model},
	}, map[string]string{"model": h.model})
	if err != nil {
		return fmt.Errorf("huggingface: %w", err)
	}
	resp, err := h.Session().Do(req, false)
	if err != nil {
		return fmt.Errorf("huggingface: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("huggingface: conversation create status %d: %w", resp.StatusCode, webscout.ErrAuth)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("huggingface: conversation create status %d: %w", resp.StatusCode, webscout.ErrBadResponse)
	}
	var reply struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(resp.Raw, &reply); err != nil || reply.ConversationID == "" {
		return fmt.Errorf("huggingface: conversation create: %w", webscout.ErrBadResponse)
	}
	h.mu.Lock()
	h.conversationID = reply.ConversationID
	h.mu.Unlock()
	return nil
}

// fetchMessageID pulls the latest message id from the sveltekit data blob.
// The blob is a flat value table with index references; any parse trouble
// falls back to a fresh UUID, which the endpoint accepts for new turns.
func (h *HuggingFaceChat) fetchMessageID(ctx context.Context, conversationID string) string {
	url := fmt.Sprintf("%s/chat/conversation/%s/__data.json?x-sveltekit-invalidated=11", h.origin, conversationID)
	resp, err := h.Session().Get(ctx, url, nil, false)
	if err != nil || resp.StatusCode >= 400 {
		return uuid.NewString()
	}
	for _, line := range bytes.Split(resp.Raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var blob struct {
			Nodes []struct {
				Type string          `json:"type"`
				Data json.RawMessage `json:"data"`
			} `json:"nodes"`
		}
		if err := json.Unmarshal(line, &blob); err != nil || len(blob.Nodes) < 2 {
			continue
		}
		if blob.Nodes[len(blob.Nodes)-1].Type == "error" {
			return uuid.NewString()
		}
		if id := messageIDFromTable(blob.Nodes[1].Data); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

// messageIDFromTable walks the sveltekit flat table: entry 0 maps field
// names to indexes, "messages" points at an index array, and the last
// message's "id" field points at the id string.
func messageIDFromTable(raw json.RawMessage) string {
	var table []any
	if err := json.Unmarshal(raw, &table); err != nil || len(table) == 0 {
		return ""
	}
	root, ok := table[0].(map[string]any)
	if !ok {
		return ""
	}
	at := func(v any) (any, bool) {
		idx, ok := v.(float64)
		if !ok || int(idx) < 0 || int(idx) >= len(table) {
			return nil, false
		}
		return table[int(idx)], true
	}
	keysVal, ok := at(root["messages"])
	if !ok {
		return ""
	}
	keys, ok := keysVal.([]any)
	if !ok || len(keys) == 0 {
		return ""
	}
	msgVal, ok := at(keys[len(keys)-1])
	if !ok {
		return ""
	}
	msg, ok := msgVal.(map[string]any)
	if !ok {
		return ""
	}
	idVal, ok := at(msg["id"])
	if !ok {
		return ""
	}
	id, _ := idVal.(string)
	return id
}

// buildTurn assembles the per-turn request in whichever encoding is active.
func (h *HuggingFaceChat) buildTurn(ctx context.Context, prompt string) (*http.Request, error) {
	h.mu.Lock()
	conversationID := h.conversationID
	useJSON := h.useJSON
	h.mu.Unlock()
	if conversationID == "" {
		return nil, fmt.Errorf("no active conversation")
	}

	payload := map[string]any{
		"inputs":      prompt,
		"id":          h.fetchMessageID(ctx, conversationID),
		"is_retry":    false,
		"is_continue": false,
		"web_search":  false,
		"tools":       []string{"66e85bb396d054c5771bc6cb", "00000000000000000000000a"},
	}
	url := h.origin + "/chat/conversation/" + conversationID
	hdr := http.Header{
		"Origin":  {hfOrigin},
		"Referer": {hfOrigin + "/chat/conversation/" + conversationID},
	}

	if useJSON {
		return postJSON(ctx, url, hdr, payload)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.SetBoundary(formBoundary()); err != nil {
		return nil, err
	}
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="data"`},
		"Content-Type":        {"application/json"},
	})
	if err != nil {
		return nil, err
	}
	part.Write(data)
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

const boundaryChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// formBoundary mimics the browser's WebKit boundary shape.
func formBoundary() string {
	suffix := make([]byte, 16)
	for i := range suffix {
		suffix[i] = boundaryChars[rand.Intn(len(boundaryChars))]
	}
	return "----WebKitFormBoundary" + string(suffix)
}
