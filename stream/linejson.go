package stream

import (
	"io"
	"log/slog"
	"strings"
)

// LineJSON parses bodies that ship one JSON object per line without SSE
// framing. Extract pulls the delta out of each object; frames it rejects
// and unparsable lines are dropped.
type LineJSON struct {
	Extract func(data []byte) (text string, ok bool)
	Logger  *slog.Logger
}

func (d *LineJSON) Decode(r io.Reader, emit func(Event) error) error {
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
		text, ok := d.Extract([]byte(line))
		if !ok {
			logger.Debug("dropping malformed stream frame", "framing", "line-json", "payload", line)
			continue
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
