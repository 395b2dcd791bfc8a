// Package stream turns provider response bodies into normalized delta events.
//
// Each upstream vendor frames its streaming body differently: SSE "data:"
// lines, newline-delimited JSON, Vercel AI SDK prefixed lines, custom
// sentinel-delimited text, or plain text lines. A Decoder knows one framing
// and emits Event values as complete frames arrive. Stream is the pull
// iterator callers drive; its producer goroutine runs the decoder.
package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// Event is one incremental fragment of the assistant's reply.
type Event struct {
	Text string
}

// ErrClosed is returned by Text when the stream was closed before the
// decoder finished.
var ErrClosed = errors.New("stream closed before completion")

// A Decoder parses one wire framing. Decode reads r until EOF or a
// terminator frame and calls emit for every complete delta. A non-nil error
// from emit aborts decoding and is returned unchanged.
type Decoder interface {
	Decode(r io.Reader, emit func(Event) error) error
}

// DecodeFunc adapts a function to the Decoder interface.
type DecodeFunc func(r io.Reader, emit func(Event) error) error

func (f DecodeFunc) Decode(r io.Reader, emit func(Event) error) error {
	return f(r, emit)
}

// Stream is a restartable lazy sequence of delta events. One producer
// goroutine drives the decoder; callers pull with Next or drain with Text.
// Closing the stream cancels the underlying request.
type Stream struct {
	events chan Event
	done   chan struct{}
	cancel context.CancelFunc

	mu     sync.Mutex
	err    error
	agg    strings.Builder
	closed bool
}

// New starts a producer goroutine that decodes body with dec. onDone is
// invoked with the full aggregated text exactly once, and only if the
// decoder reaches a clean end of stream. body is closed when decoding stops
// for any reason.
func New(ctx context.Context, body io.ReadCloser, dec Decoder, onDone func(full string)) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		events: make(chan Event, 8),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	// Closing the body is what unblocks a decoder waiting on the wire.
	go func() {
		select {
		case <-ctx.Done():
			body.Close()
		case <-s.done:
		}
	}()

	go func() {
		defer close(s.done)
		defer close(s.events)
		defer body.Close()

		err := dec.Decode(body, func(ev Event) error {
			s.mu.Lock()
			s.agg.WriteString(ev.Text)
			s.mu.Unlock()
			select {
			case s.events <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		s.mu.Lock()
		s.err = err
		full := s.agg.String()
		s.mu.Unlock()

		if err == nil && onDone != nil {
			onDone(full)
		}
	}()

	return s
}

// Next returns the next delta event. ok is false once the stream has ended;
// check Err afterwards.
func (s *Stream) Next() (ev Event, ok bool) {
	ev, ok = <-s.events
	return ev, ok
}

// Err reports the terminal decoding error, if any. Valid after Next has
// returned ok == false.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close aborts the stream. The in-flight request is canceled and the
// conversation is not updated.
func (s *Stream) Close() error {
	s.mu.Lock()
	already := s.closed
	s.closed = true
	s.mu.Unlock()
	if already {
		return nil
	}
	s.cancel()
	// Drain so the producer can exit.
	go func() {
		for range s.events {
		}
	}()
	<-s.done
	return nil
}

// Text drains the stream and returns the aggregate assistant message.
func (s *Stream) Text() (string, error) {
	for range s.events {
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.closed {
		return "", ErrClosed
	}
	return s.agg.String(), nil
}
