package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"webscout"
)

func TestVercelAdapterDecodesDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "f:{\"messageId\":\"m1\"}\n")
		fmt.Fprint(w, "0:\"Hello \"\n")
		fmt.Fprint(w, "0:\"there\"\n")
		fmt.Fprint(w, "e:{\"finishReason\":\"stop\"}\n")
	}))
	defer srv.Close()

	p, err := NewWiseCat(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewWiseCat: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "Hello there" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestTalkAIStopsOnTryLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: partial \n\n")
		fmt.Fprint(w, "data: answer\n\n")
		fmt.Fprint(w, "event: trylimit\n\n")
		fmt.Fprint(w, "data: never seen\n\n")
	}))
	defer srv.Close()

	p, err := NewTalkAI(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewTalkAI: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "partial answer" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestMinitoolParsesResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Utoken  string `json:"utoken"`
			Message string `json:"message"`
		}
		if err := readJSON(r, &payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if len(payload.Utoken) != 64 {
			t.Errorf("utoken length = %d", len(payload.Utoken))
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "&lt;answer&gt;"})
	}))
	defer srv.Close()

	p, err := NewMinitool(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewMinitool: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "<answer>" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestFlowithStripsThinkBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<think>\nreasoning here\n</think>\nfinal answer")
	}))
	defer srv.Close()

	p, err := NewFlowith(Options{BaseURL: srv.URL, Seed: 1, Model: "deepseek-reasoner"})
	if err != nil {
		t.Fatalf("NewFlowith: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "final answer" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestMhysticalParsesCompletionObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "mhystical" {
			t.Errorf("X-API-Key = %q", got)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"full answer"}}]}`)
	}))
	defer srv.Close()

	p, err := NewMhystical(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewMhystical: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "full answer" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestGliderResolvesAliases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model string `json:"model"`
		}
		readJSON(r, &payload)
		if payload.Model != "deepseek-ai/DeepSeek-R1" {
			t.Errorf("wire model = %q", payload.Model)
		}
		sseBody(w, "ok")
	}))
	defer srv.Close()

	p, err := NewGlider(Options{BaseURL: srv.URL, Model: "deepseek-r1", Seed: 1})
	if err != nil {
		t.Fatalf("NewGlider: %v", err)
	}
	if _, err := p.Ask(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Ask: %v", err)
	}
}

func TestGroqRequiresKey(t *testing.T) {
	if _, err := NewGroq(Options{}); !errors.Is(err, webscout.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestLeoOmitsStopSequenceField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := readJSON(r, &payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if _, present := payload["self.stop_sequence"]; present {
			t.Error("payload carries the self.stop_sequence field")
		}
		if prompt, _ := payload["prompt"].(string); prompt == "" {
			t.Error("prompt missing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"completion\":\"hi there\"}\n\n")
	}))
	defer srv.Close()

	p, err := NewLeo(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewLeo: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "hi there" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestCerebrasExchangesCookiesForKey(t *testing.T) {
	var sawBearer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/graphql":
			var payload struct {
				OperationName string `json:"operationName"`
			}
			readJSON(r, &payload)
			if payload.OperationName != "GetMyDemoApiKey" {
				t.Errorf("operationName = %q", payload.OperationName)
			}
			fmt.Fprint(w, `{"data":{"GetMyDemoApiKey":"demo-key-123"}}`)
		case "/v1/chat/completions":
			sawBearer = r.Header.Get("Authorization")
			sseBody(w, "ok")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	now := float64(time.Now().Unix())
	raw, _ := json.Marshal([]map[string]any{
		{"name": "session", "value": "abc", "domain": "inference.cerebras.ai", "path": "/", "expirationDate": now + 3600},
	})
	cookiePath := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(cookiePath, raw, 0o600); err != nil {
		t.Fatalf("write cookies: %v", err)
	}

	p, err := NewCerebras(Options{BaseURL: srv.URL, CookiePath: cookiePath, Seed: 1})
	if err != nil {
		t.Fatalf("NewCerebras: %v", err)
	}
	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("text = %q", resp.Text)
	}
	if sawBearer != "Bearer demo-key-123" {
		t.Fatalf("Authorization = %q", sawBearer)
	}
}

func TestHuggingFaceMessageIDFromTable(t *testing.T) {
	// Flat table: root maps messages -> index 1, which lists message
	// object indexes; message object maps id -> index 3.
	table := `[{"messages":1},[2],{"id":3},"msg-uuid-42"]`
	if got := messageIDFromTable(json.RawMessage(table)); got != "msg-uuid-42" {
		t.Fatalf("messageIDFromTable = %q", got)
	}
	if got := messageIDFromTable(json.RawMessage(`[]`)); got != "" {
		t.Fatalf("empty table gave %q", got)
	}
	if got := messageIDFromTable(json.RawMessage(`[{"messages":99}]`)); got != "" {
		t.Fatalf("out-of-range index gave %q", got)
	}
}

func TestHuggingFaceRequiresCookies(t *testing.T) {
	if _, err := NewHuggingFaceChat(Options{}); !errors.Is(err, webscout.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestModelsRegistryCoversAdapters(t *testing.T) {
	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("Names() = %d entries, registry has %d", len(names), len(registry))
	}
	for _, name := range []string{"yep", "huggingface", "xjai", "ollama"} {
		models, ok := ModelsFor(name)
		if !ok || len(models) == 0 {
			t.Fatalf("ModelsFor(%q) = %v, %v", name, models, ok)
		}
	}
	if _, ok := ModelsFor("no-such-provider"); ok {
		t.Fatal("unknown provider resolved")
	}

	// Mutating a returned roster must not touch the registry.
	models, _ := ModelsFor("yep")
	models[0] = "poisoned"
	fresh, _ := ModelsFor("yep")
	if fresh[0] == "poisoned" {
		t.Fatal("registry aliased to caller slice")
	}
}

func TestAdaptersSatisfyProviderInterface(t *testing.T) {
	srv, _ := newSSEServer(t, "ok")
	var p webscout.Provider
	var err error
	p, err = NewDeepSeek(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewDeepSeek: %v", err)
	}
	if len(p.AvailableModels()) == 0 {
		t.Fatal("empty roster")
	}
}
