package stream

import (
	"io"
	"strings"
)

// PlainLines treats every non-empty body line as a delta on its own
// (BlackboxAI, Llama2). Lines are re-joined with the newlines the wire
// carried so the aggregate matches the original text.
type PlainLines struct{}

func (d *PlainLines) Decode(r io.Reader, emit func(Event) error) error {
	first := true
	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if !first {
			line = "\n" + line
		}
		first = false
		if err := emit(Event{Text: line}); err != nil {
			return err
		}
	}
	return sc.Err()
}

// WholeBody reads the entire body and emits it as a single event, after an
// optional clean pass. Used by single-shot providers with no streaming
// semantics.
type WholeBody struct {
	// Decode converts raw body bytes to text; defaults to a plain string
	// conversion. Transport supplies a charset-tolerant decoder for
	// providers known to drift from UTF-8.
	DecodeBody func([]byte) string
	Clean      func(string) string
}

func (d *WholeBody) Decode(r io.Reader, emit func(Event) error) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	text := ""
	if d.DecodeBody != nil {
		text = d.DecodeBody(raw)
	} else {
		text = string(raw)
	}
	if d.Clean != nil {
		text = d.Clean(text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return emit(Event{Text: text})
}
