package stream

import (
	"html"
	"regexp"
	"strings"
)

var (
	thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	webBlockRe   = regexp.MustCompile(`<webblock class="(?:research|detail)">[^<]*</webblock>`)
)

// StripThink removes <think>…</think> reasoning blocks from a final message.
func StripThink(text string) string {
	return strings.TrimSpace(thinkBlockRe.ReplaceAllString(text, ""))
}

// StripWebBlocks removes oo.ai's research/detail webblock wrappers.
func StripWebBlocks(text string) string {
	return webBlockRe.ReplaceAllString(text, "")
}

// UnescapeHTML resolves HTML entities in a final message.
func UnescapeHTML(text string) string {
	return html.UnescapeString(text)
}
