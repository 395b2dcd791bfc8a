// Package webscout is a uniform client fabric for heterogeneous LLM chat
// endpoints. Every vendor exposes a different HTTP contract; the provider
// adapters under providers/ encode those contracts and surface this one
// interface: send a prompt, get either a final message or an incremental
// token stream.
package webscout

import (
	"context"

	"webscout/stream"
)

// Response is the record a non-streaming ask returns and the value retained
// as the provider's last response.
type Response struct {
	Text string `json:"text"`
}

// AskOptions tune a single ask/chat call.
type AskOptions struct {
	// Optimizer names a prompt rewriter from the conversation package
	// registry. Unknown names fail with ErrUnknownOptimizer before any
	// network call.
	Optimizer string
	// Conversationally applies the optimizer to the fully assembled prompt
	// instead of the bare user text.
	Conversationally bool
}

// Provider is the uniform surface every adapter exports. One in-flight call
// per instance; concurrent callers need separate instances.
type Provider interface {
	// Ask sends a prompt and blocks until the full assistant message is
	// assembled.
	Ask(ctx context.Context, prompt string, opts *AskOptions) (Response, error)
	// AskStream sends a prompt and returns a lazy sequence of delta events.
	// The concatenation of the stream's events equals the Ask text for the
	// same exchange.
	AskStream(ctx context.Context, prompt string, opts *AskOptions) (*stream.Stream, error)
	// Chat is Ask reduced to the message text.
	Chat(ctx context.Context, prompt string, opts *AskOptions) (string, error)
	// AvailableModels lists the model ids this provider accepts.
	AvailableModels() []string
}

// GetMessage extracts the message text from a delta event.
func GetMessage(ev stream.Event) string {
	return ev.Text
}
