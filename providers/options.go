// Package providers implements the per-vendor adapters. Every adapter is a
// thin configuration of the shared Engine: an endpoint, a payload shape,
// and a stream decoder. The Engine owns the uniform ask/chat contract.
package providers

import (
	"log/slog"
	"time"

	"webscout/conversation"
)

// Options configures one adapter instance. The zero value gives an active
// in-memory conversation with the defaults the endpoints expect; Disable*
// fields invert behaviors that default to on.
type Options struct {
	// Model selects one of the adapter's AvailableModels. Empty picks the
	// adapter default; an unknown name fails construction.
	Model string
	// APIKey is the bearer or vendor key for authenticated endpoints.
	APIKey string
	// CookiePath points at a browser cookie export for cookie-gated
	// endpoints.
	CookiePath string
	// SystemPrompt overrides the adapter's system message where the wire
	// format carries one.
	SystemPrompt string

	Temperature float64
	TopP        float64
	MaxTokens   int

	// DisableConversation turns off history assembly: prompts pass
	// through bare and no turns are retained.
	DisableConversation bool
	// Intro replaces the default system preamble. Act wins over Intro.
	Intro string
	// Act selects an intro from the act library by key.
	Act string
	// Filepath persists history to disk and preloads it on construction.
	Filepath string
	// DisableFileUpdate stops appending new exchanges to Filepath.
	DisableFileUpdate bool
	// HistoryOffset caps the serialized history length. Zero keeps the
	// default budget.
	HistoryOffset int

	// Proxy accepts http://, https:// or socks5:// URLs.
	Proxy string
	// Timeout bounds each upstream call end to end. Zero means 30s.
	Timeout time.Duration
	// BaseURL overrides the adapter's endpoint origin. Meant for tests.
	BaseURL string
	// Seed fixes the identity generator for reproducible fingerprints.
	Seed int64

	Logger *slog.Logger
}

const (
	defaultMaxTokens = 600
	defaultTimeout   = 30 * time.Second
)

func (o Options) normalized() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.HistoryOffset <= 0 {
		o.HistoryOffset = conversation.DefaultHistoryOffset
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
