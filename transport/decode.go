package transport

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeBody interprets an upstream body as UTF-8 when valid and falls
// back to latin-1 otherwise. Some endpoints mislabel or omit the charset
// and ship raw latin-1 bytes mid-stream.
func DecodeBody(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// latin-1 maps every byte, so this is unreachable in
		// practice; keep the raw bytes rather than drop data.
		return string(raw)
	}
	return string(decoded)
}
