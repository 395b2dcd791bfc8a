package stream

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

// HuggingFace parses the newline-delimited JSON body of huggingface.co/chat.
// Each line is a standalone object with a "type" discriminator:
//
//	stream      → one delta per frame (token field)
//	finalAnswer → full message; emitted only when no stream frames arrived
//	webSearch   → source metadata, no event
//	reasoning   → accumulated and emitted once, wrapped in <think> delimiters,
//	              before the first answer token
type HuggingFace struct {
	Logger *slog.Logger
}

func (d *HuggingFace) Decode(r io.Reader, emit func(Event) error) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		sawAnswer     bool
		reasoning     strings.Builder
		reasoningSent bool
	)

	flushReasoning := func() error {
		if reasoningSent || reasoning.Len() == 0 {
			return nil
		}
		reasoningSent = true
		return emit(Event{Text: "<think>\n" + reasoning.String() + "\n</think>\n"})
	}

	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var frame struct {
			Type    string `json:"type"`
			Subtype string `json:"subtype"`
			Token   string `json:"token"`
			Text    string `json:"text"`
		}
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			logger.Debug("dropping malformed stream frame", "framing", "ndjson", "payload", line)
			continue
		}
		switch frame.Type {
		case "stream":
			if frame.Token == "" {
				continue
			}
			if err := flushReasoning(); err != nil {
				return err
			}
			sawAnswer = true
			token := strings.ReplaceAll(frame.Token, "\u0000", "")
			if err := emit(Event{Text: token}); err != nil {
				return err
			}
		case "finalAnswer":
			if sawAnswer || frame.Text == "" {
				continue
			}
			if err := flushReasoning(); err != nil {
				return err
			}
			sawAnswer = true
			if err := emit(Event{Text: frame.Text}); err != nil {
				return err
			}
		case "reasoning":
			if frame.Subtype == "stream" {
				reasoning.WriteString(frame.Token)
			}
		case "webSearch":
			// Source list only; nothing to emit.
		}
	}
	return sc.Err()
}

// Ollama parses the line-JSON body of Ollama's /api/chat. Each line carries
// message.content and a done flag.
type Ollama struct {
	Logger *slog.Logger
}

func (d *Ollama) Decode(r io.Reader, emit func(Event) error) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var frame struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Done bool `json:"done"`
		}
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			logger.Debug("dropping malformed stream frame", "framing", "ollama", "payload", line)
			continue
		}
		if frame.Message.Content != "" {
			if err := emit(Event{Text: frame.Message.Content}); err != nil {
				return err
			}
		}
		if frame.Done {
			return nil
		}
	}
	return sc.Err()
}
