package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"webscout"
	"webscout/conversation"
	"webscout/identity"
	"webscout/stream"
	"webscout/transport"
)

// buildFunc assembles one upstream request for the assembled prompt. It is
// called per attempt so a retry never reuses a consumed body.
type buildFunc func(ctx context.Context, prompt string) (*http.Request, error)

// engineSpec is what an adapter contributes to the shared machinery.
type engineSpec struct {
	name    string
	models  []string
	decoder stream.Decoder
	build   buildFunc
	// prepare runs once before the first request. Adapters with a
	// handshake (cookie login, conversation bootstrap) hook it here.
	prepare func(ctx context.Context) error
	// fallback, when set, is consulted on a 4xx/5xx other than the
	// retryable pair. Returning true re-runs build once so the adapter
	// can switch encodings.
	fallback func(status int) bool
	// impersonate pins the TLS ClientHello to the identity's browser.
	impersonate bool
	// browser forces the fingerprint family; empty picks at random.
	browser string
}

// Engine drives the uniform ask/chat contract for one vendor. One in-flight
// call per instance.
type Engine struct {
	name     string
	opts     Options
	logger   *slog.Logger
	gen      *identity.Generator
	session  *transport.Session
	conv     *conversation.Conversation
	decoder  stream.Decoder
	build    buildFunc
	prepare  func(ctx context.Context) error
	fallback func(status int) bool
	models   []string

	mu       sync.Mutex
	prepared bool
	last     webscout.Response
}

func newEngine(opts Options, spec engineSpec) (*Engine, error) {
	opts = opts.normalized()

	intro := opts.Intro
	if opts.Act != "" {
		actIntro, err := conversation.ActIntro(opts.Act)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.name, err)
		}
		intro = actIntro
	}

	conv, err := conversation.New(!opts.DisableConversation, opts.MaxTokens, opts.Filepath, !opts.DisableFileUpdate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.name, err)
	}
	if intro != "" {
		conv.Intro = intro
	}
	conv.SetHistoryOffset(opts.HistoryOffset)

	gen := identity.NewGenerator(opts.Seed)
	var ident *identity.Identity
	if spec.browser != "" {
		ident = gen.ForBrowser(spec.browser)
	} else {
		ident = gen.Random()
	}

	session, err := transport.NewSession(transport.Config{
		Proxy:       opts.Proxy,
		Timeout:     opts.Timeout,
		Impersonate: spec.impersonate,
		Logger:      opts.Logger,
	}, ident)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.name, err)
	}

	return &Engine{
		name:     spec.name,
		opts:     opts,
		logger:   opts.Logger.With("provider", spec.name),
		gen:      gen,
		session:  session,
		conv:     conv,
		decoder:  spec.decoder,
		build:    spec.build,
		prepare:  spec.prepare,
		fallback: spec.fallback,
		models:   spec.models,
	}, nil
}

// AvailableModels lists the model ids this adapter accepts.
func (e *Engine) AvailableModels() []string {
	out := make([]string, len(e.models))
	copy(out, e.models)
	return out
}

// LastResponse returns the most recent completed response.
func (e *Engine) LastResponse() webscout.Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Conversation exposes the history manager, mainly for persistence setup
// and tests.
func (e *Engine) Conversation() *conversation.Conversation {
	return e.conv
}

// Session exposes the transport session for adapters with auxiliary calls.
func (e *Engine) Session() *transport.Session {
	return e.session
}

// assemblePrompt folds history and optimizer into the wire prompt. Optimizer
// resolution happens here so an unknown name fails before any network call.
func (e *Engine) assemblePrompt(prompt string, opts *webscout.AskOptions) (string, error) {
	assembled := e.conv.GenCompletePrompt(prompt)
	if opts == nil || opts.Optimizer == "" {
		return assembled, nil
	}
	optimize, ok := conversation.LookupOptimizer(opts.Optimizer)
	if !ok {
		return "", fmt.Errorf("%s: optimizer %q: %w", e.name, opts.Optimizer, webscout.ErrUnknownOptimizer)
	}
	if opts.Conversationally {
		return optimize(assembled), nil
	}
	return optimize(prompt), nil
}

// send performs one upstream exchange with the single identity-refresh
// retry on 403/429. The returned response has an open streaming body.
func (e *Engine) send(ctx context.Context, prompt string) (*transport.Response, error) {
	if e.prepare != nil {
		e.mu.Lock()
		ready := e.prepared
		e.mu.Unlock()
		if !ready {
			if err := e.prepare(ctx); err != nil {
				return nil, err
			}
			e.mu.Lock()
			e.prepared = true
			e.mu.Unlock()
		}
	}

	resp, err := e.attempt(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		status := resp.StatusCode
		discard(resp)
		e.session.ApplyIdentity(e.gen.Refresh(e.session.Identity()))
		e.logger.Debug("refreshed identity after rejection", "status", status)
		resp, err = e.attempt(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			status = resp.StatusCode
			discard(resp)
			return nil, fmt.Errorf("%s: status %d after identity refresh: %w", e.name, status, webscout.ErrRateLimited)
		}
	}
	if resp.StatusCode >= 400 && e.fallback != nil && e.fallback(resp.StatusCode) {
		discard(resp)
		resp, err = e.attempt(ctx, prompt)
		if err != nil {
			return nil, err
		}
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		discard(resp)
		return nil, fmt.Errorf("%s: status 401: %w", e.name, webscout.ErrAuth)
	case resp.StatusCode >= 400:
		status := resp.StatusCode
		discard(resp)
		return nil, fmt.Errorf("%s: status %d: %w", e.name, status, webscout.ErrBadResponse)
	}
	return resp, nil
}

func (e *Engine) attempt(ctx context.Context, prompt string) (*transport.Response, error) {
	req, err := e.build(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	resp, err := e.session.Do(req, true)
	if err != nil {
		var terr *transport.Error
		if errors.As(err, &terr) && terr.Kind == transport.KindTimeout {
			return nil, fmt.Errorf("%s: %v: %w", e.name, err, webscout.ErrTimeout)
		}
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	return resp, nil
}

func discard(resp *transport.Response) {
	if resp.Body != nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
	}
}

// Ask sends a prompt and blocks for the full message. History updates
// exactly once, only after the message fully assembles.
func (e *Engine) Ask(ctx context.Context, prompt string, opts *webscout.AskOptions) (webscout.Response, error) {
	assembled, err := e.assemblePrompt(prompt, opts)
	if err != nil {
		return webscout.Response{}, err
	}
	resp, err := e.send(ctx, assembled)
	if err != nil {
		return webscout.Response{}, err
	}
	defer resp.Body.Close()

	var full strings.Builder
	err = e.decoder.Decode(resp.Body, func(ev stream.Event) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		full.WriteString(ev.Text)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return webscout.Response{}, fmt.Errorf("%s: %w", e.name, ctx.Err())
		}
		return webscout.Response{}, fmt.Errorf("%s: %w: %w", e.name, webscout.ErrBadResponse, err)
	}
	text := full.String()

	e.commit(prompt, text)
	return webscout.Response{Text: text}, nil
}

// AskStream sends a prompt and returns the live event stream. History
// updates once when the stream drains; a canceled or closed stream leaves
// history untouched.
func (e *Engine) AskStream(ctx context.Context, prompt string, opts *webscout.AskOptions) (*stream.Stream, error) {
	assembled, err := e.assemblePrompt(prompt, opts)
	if err != nil {
		return nil, err
	}
	resp, err := e.send(ctx, assembled)
	if err != nil {
		return nil, err
	}
	return stream.New(ctx, resp.Body, e.decoder, func(full string) {
		e.commit(prompt, full)
	}), nil
}

// Chat is Ask reduced to the message text.
func (e *Engine) Chat(ctx context.Context, prompt string, opts *webscout.AskOptions) (string, error) {
	resp, err := e.Ask(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (e *Engine) commit(prompt, text string) {
	e.mu.Lock()
	e.last = webscout.Response{Text: text}
	e.mu.Unlock()
	if err := e.conv.Update(prompt, text); err != nil {
		e.logger.Warn("history file update failed", "error", err)
	}
}

// resolveModel validates a requested model against the adapter roster.
func resolveModel(name, requested, fallback string, available []string) (string, error) {
	if requested == "" {
		return fallback, nil
	}
	for _, m := range available {
		if m == requested {
			return requested, nil
		}
	}
	return "", fmt.Errorf("%s: model %q not in %v: %w", name, requested, available, webscout.ErrUnknownModel)
}
