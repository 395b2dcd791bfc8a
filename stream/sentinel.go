package stream

import (
	"io"
	"strings"
)

// XjaiSentinel is the literal token Xjai interleaves around answer text.
const XjaiSentinel = "&KFw6loC9Qvy&"

// xjaiAdBanner occurs on injected ad lines, which are dropped wholesale.
const xjaiAdBanner = "[ChatAI](https://srv.aiflarepro.com/#/?cid=4111)"

// SentinelSplit parses the Xjai framing: occurrences of Sentinel toggle an
// emit/skip state, and any line containing AdBanner is discarded.
type SentinelSplit struct {
	Sentinel string
	AdBanner string
}

func (d *SentinelSplit) Decode(r io.Reader, emit func(Event) error) error {
	sentinel := d.Sentinel
	if sentinel == "" {
		sentinel = XjaiSentinel
	}
	banner := d.AdBanner
	if banner == "" {
		banner = xjaiAdBanner
	}

	emitting := false
	sc := newLineScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.Contains(line, banner) {
			continue
		}
		if strings.Contains(line, sentinel) {
			parts := strings.Split(line, sentinel)
			var out string
			if emitting {
				out = parts[0]
				emitting = false
			} else {
				out = parts[1]
				emitting = true
				if len(parts) > 2 {
					emitting = false
				}
			}
			if out != "" {
				if err := emit(Event{Text: out}); err != nil {
					return err
				}
			}
			continue
		}
		if emitting && line != "" {
			if err := emit(Event{Text: line + "\n"}); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}
