package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

// DoneSentinel is the payload OpenAI-compatible endpoints send as the final
// "data:" frame.
const DoneSentinel = "[DONE]"

// SSEJSON parses an SSE body whose "data:" payloads are JSON objects.
// Empty lines and comment lines are skipped; a payload equal to DoneSentinel
// terminates the stream cleanly. Malformed JSON payloads are logged and
// dropped, never aborting the stream.
type SSEJSON struct {
	// Extract pulls the delta text out of one decoded payload. Defaults to
	// DeltaContent.
	Extract func(data []byte) (string, bool)
	// Clean, when set, post-processes each extracted delta.
	Clean  func(string) string
	Logger *slog.Logger
}

func (d *SSEJSON) Decode(r io.Reader, emit func(Event) error) error {
	extract := d.Extract
	if extract == nil {
		extract = DeltaContent
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == DoneSentinel {
			return nil
		}
		text, ok := extract([]byte(payload))
		if !ok {
			logger.Debug("dropping malformed stream frame", "framing", "sse-json", "payload", payload)
			continue
		}
		if text == "" {
			continue
		}
		if d.Clean != nil {
			text = d.Clean(text)
		}
		if text == "" {
			continue
		}
		if err := emit(Event{Text: text}); err != nil {
			return err
		}
	}
	return sc.Err()
}

// DeltaContent extracts choices[0].delta.content from an OpenAI streaming
// chunk.
func DeltaContent(data []byte) (string, bool) {
	var chunk struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", true
	}
	return chunk.Choices[0].Delta.Content, true
}

// MessageContent extracts choices[0].message.content from a complete
// OpenAI-style response object.
func MessageContent(data []byte) (string, bool) {
	var body struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return "", false
	}
	if len(body.Choices) == 0 {
		return "", false
	}
	return body.Choices[0].Message.Content, true
}

// FieldContent extracts a top-level string field from each payload object.
func FieldContent(field string) func(data []byte) (string, bool) {
	return func(data []byte) (string, bool) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", false
		}
		raw, present := obj[field]
		if !present {
			return "", true
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", false
		}
		return text, true
	}
}

// SSEPlain parses an SSE body whose "data:" payloads are the delta text
// itself, with no JSON envelope (TalkAI). A payload equal to the stop event
// name terminates the stream.
type SSEPlain struct {
	// StopEvent stops decoding when an "event:" line carries this name.
	StopEvent string
}

func (d *SSEPlain) Decode(r io.Reader, emit func(Event) error) error {
	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if d.StopEvent != "" && strings.HasPrefix(line, "event:") {
			if strings.TrimSpace(strings.TrimPrefix(line, "event:")) == d.StopEvent {
				return nil
			}
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
		if payload == DoneSentinel {
			return nil
		}
		if payload == "" {
			continue
		}
		if err := emit(Event{Text: payload}); err != nil {
			return err
		}
	}
	return sc.Err()
}

// SSEArray parses SSE payloads that are JSON arrays (OpenGPT). The delta is
// element index 1, field "content", emitted only when the array has more
// than one element. The upstream resends the full accumulated message each
// frame, so only the suffix beyond what was already emitted is yielded.
type SSEArray struct {
	Logger *slog.Logger
}

func (d *SSEArray) Decode(r io.Reader, emit func(Event) error) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var emitted string
	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == DoneSentinel {
			return nil
		}
		var arr []struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(payload), &arr); err != nil {
			logger.Debug("dropping malformed stream frame", "framing", "sse-array", "payload", payload)
			continue
		}
		if len(arr) < 2 {
			continue
		}
		full := arr[1].Content
		if !strings.HasPrefix(full, emitted) {
			// Upstream restarted the message; treat the whole frame as new.
			emitted = ""
		}
		delta := full[len(emitted):]
		emitted = full
		if delta == "" {
			continue
		}
		if err := emit(Event{Text: delta}); err != nil {
			return err
		}
	}
	return sc.Err()
}

// newLineScanner builds a scanner sized for provider streams. Chunks on the
// wire do not align with line boundaries; bufio handles the buffering.
func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 2<<20)
	return sc
}
