package stream

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

// Vercel parses the Vercel AI SDK line protocol (Labyrinth, Uncovr, Akash).
// Every line is "<tag>:<payload>":
//
//	0: a JSON-quoted content token
//	f: message-id envelope, ignored
//	e:, d: stream terminators
//
// The 0: payload is a JSON string literal and is decoded as such; a naive
// quote strip would corrupt content with embedded escapes.
type Vercel struct {
	Logger *slog.Logger
}

func (d *Vercel) Decode(r io.Reader, emit func(Event) error) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "0:"):
			payload := strings.TrimSpace(line[2:])
			var token string
			if err := json.Unmarshal([]byte(payload), &token); err != nil {
				logger.Debug("dropping malformed stream frame", "framing", "vercel", "payload", payload)
				continue
			}
			if token == "" {
				continue
			}
			if err := emit(Event{Text: token}); err != nil {
				return err
			}
		case strings.HasPrefix(line, "e:"), strings.HasPrefix(line, "d:"):
			return nil
		default:
			// f: and other envelope tags carry no content.
		}
	}
	return sc.Err()
}
