package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"webscout"
)

// sseBody writes an OpenAI-style SSE stream of the given tokens.
func sseBody(w http.ResponseWriter, tokens ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	for _, tok := range tokens {
		fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", tok)
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func newSSEServer(t *testing.T, tokens ...string) (*httptest.Server, *int) {
	t.Helper()
	hits := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		sseBody(w, tokens...)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func newTestProvider(t *testing.T, baseURL string) *DeepSeek {
	t.Helper()
	p, err := NewDeepSeek(Options{BaseURL: baseURL, Seed: 1})
	if err != nil {
		t.Fatalf("NewDeepSeek: %v", err)
	}
	return p
}

func TestAskAggregatesStream(t *testing.T) {
	srv, _ := newSSEServer(t, "Hello", ", ", "world")
	p := newTestProvider(t, srv.URL)

	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Text != "Hello, world" {
		t.Fatalf("Ask text = %q", resp.Text)
	}
}

func TestAskStreamMatchesAsk(t *testing.T) {
	srv, _ := newSSEServer(t, "one ", "two ", "three")
	p := newTestProvider(t, srv.URL)

	st, err := p.AskStream(context.Background(), "count", nil)
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}
	var agg strings.Builder
	for {
		ev, ok := st.Next()
		if !ok {
			break
		}
		agg.WriteString(webscout.GetMessage(ev))
	}
	if err := st.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if agg.String() != "one two three" {
		t.Fatalf("aggregated = %q", agg.String())
	}
	if got := p.LastResponse().Text; got != "one two three" {
		t.Fatalf("last response = %q", got)
	}
}

func TestHistoryUpdatesOncePerAsk(t *testing.T) {
	srv, _ := newSSEServer(t, "pong")
	p := newTestProvider(t, srv.URL)

	if _, err := p.Ask(context.Background(), "ping", nil); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	turns := p.Conversation().Turns()
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].User != "ping" || turns[0].Assistant != "pong" {
		t.Fatalf("turn = %+v", turns[0])
	}
}

func TestSecondAskCarriesHistory(t *testing.T) {
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []chatMessage `json:"messages"`
		}
		if err := readJSON(r, &payload); err == nil && len(payload.Messages) > 0 {
			prompts = append(prompts, payload.Messages[len(payload.Messages)-1].Content)
		}
		sseBody(w, "ok")
	}))
	defer srv.Close()
	p := newTestProvider(t, srv.URL)

	ctx := context.Background()
	if _, err := p.Ask(ctx, "first", nil); err != nil {
		t.Fatalf("first Ask: %v", err)
	}
	if _, err := p.Ask(ctx, "second", nil); err != nil {
		t.Fatalf("second Ask: %v", err)
	}

	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	if !strings.Contains(prompts[1], "User : first") || !strings.Contains(prompts[1], "LLM :ok") {
		t.Fatalf("second prompt missing history: %q", prompts[1])
	}
}

func TestUnknownModelFailsWithoutNetwork(t *testing.T) {
	srv, hits := newSSEServer(t, "never")
	_, err := NewDeepSeek(Options{BaseURL: srv.URL, Model: "no-such-model"})
	if !errors.Is(err, webscout.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
	if *hits != 0 {
		t.Fatalf("construction touched the network: %d hits", *hits)
	}
}

func TestUnknownOptimizerFailsBeforeNetwork(t *testing.T) {
	srv, hits := newSSEServer(t, "never")
	p := newTestProvider(t, srv.URL)

	_, err := p.Ask(context.Background(), "hi", &webscout.AskOptions{Optimizer: "no-such-optimizer"})
	if !errors.Is(err, webscout.ErrUnknownOptimizer) {
		t.Fatalf("expected ErrUnknownOptimizer, got %v", err)
	}
	if *hits != 0 {
		t.Fatalf("expected no network call, got %d hits", *hits)
	}
	if len(p.Conversation().Turns()) != 0 {
		t.Fatal("failed ask mutated history")
	}
}

func TestRetryOn429RefreshesIdentity(t *testing.T) {
	var mu sync.Mutex
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		first := len(agents) == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		sseBody(w, "recovered")
	}))
	defer srv.Close()
	p := newTestProvider(t, srv.URL)

	resp, err := p.Ask(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Ask after retry: %v", err)
	}
	if resp.Text != "recovered" {
		t.Fatalf("text = %q", resp.Text)
	}
	if len(agents) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(agents))
	}
	if agents[0] == agents[1] {
		t.Fatalf("identity not refreshed: %q both times", agents[0])
	}
}

func TestRateLimitedAfterRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	p := newTestProvider(t, srv.URL)

	_, err := p.Ask(context.Background(), "hi", nil)
	if !errors.Is(err, webscout.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if len(p.Conversation().Turns()) != 0 {
		t.Fatal("failed ask mutated history")
	}
}

func TestBadStatusWrapsBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	p := newTestProvider(t, srv.URL)

	_, err := p.Ask(context.Background(), "hi", nil)
	if !errors.Is(err, webscout.ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestCanceledAskSurfacesCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		close(started)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := newTestProvider(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := p.Ask(ctx, "hi", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, webscout.ErrBadResponse) {
		t.Fatalf("caller abort reported as bad response: %v", err)
	}
}

func TestTimeoutWrapsSentinel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p, err := NewDeepSeek(Options{BaseURL: srv.URL, Seed: 1, Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewDeepSeek: %v", err)
	}
	_, err = p.Ask(context.Background(), "hi", nil)
	if !errors.Is(err, webscout.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestClosedStreamLeavesHistoryUntouched(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)
	p := newTestProvider(t, srv.URL)

	st, err := p.AskStream(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}
	if _, ok := st.Next(); !ok {
		t.Fatal("expected first event")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(p.Conversation().Turns()) != 0 {
		t.Fatal("closed stream committed a turn")
	}
}

func TestOptimizerEmbedsPrompt(t *testing.T) {
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []chatMessage `json:"messages"`
		}
		if err := readJSON(r, &payload); err == nil && len(payload.Messages) > 0 {
			captured = payload.Messages[len(payload.Messages)-1].Content
		}
		sseBody(w, "ok")
	}))
	defer srv.Close()
	p := newTestProvider(t, srv.URL)

	if _, err := p.Ask(context.Background(), "list files", &webscout.AskOptions{Optimizer: "shell_command"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(captured, "!list files") {
		t.Fatalf("optimizer not applied: %q", captured)
	}
	// History keeps the raw prompt, not the optimized one.
	turns := p.Conversation().Turns()
	if len(turns) != 1 || turns[0].User != "list files" {
		t.Fatalf("history user = %+v", turns)
	}
}

func TestChatReturnsText(t *testing.T) {
	srv, _ := newSSEServer(t, "short answer")
	p := newTestProvider(t, srv.URL)

	text, err := p.Chat(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if text != "short answer" {
		t.Fatalf("Chat = %q", text)
	}
}

func TestActSelectsIntro(t *testing.T) {
	srv, _ := newSSEServer(t, "ok")
	p, err := NewDeepSeek(Options{BaseURL: srv.URL, Act: "linux terminal"})
	if err != nil {
		t.Fatalf("NewDeepSeek with act: %v", err)
	}
	if !strings.Contains(p.Conversation().Intro, "linux terminal") {
		t.Fatalf("act intro not installed: %q", p.Conversation().Intro)
	}

	if _, err := NewDeepSeek(Options{BaseURL: srv.URL, Act: "no such act"}); !errors.Is(err, webscout.ErrActNotFound) {
		t.Fatalf("expected ErrActNotFound, got %v", err)
	}
}
