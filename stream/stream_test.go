package stream

import (
	"context"
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, dec Decoder, body string) []Event {
	t.Helper()
	var events []Event
	err := dec.Decode(strings.NewReader(body), func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return events
}

func joined(events []Event) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(ev.Text)
	}
	return b.String()
}

func TestSSEJSONHappyPath(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
		"data: [DONE]\n"
	events := collect(t, &SSEJSON{}, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %#v", len(events), events)
	}
	if events[0].Text != "Hel" || events[1].Text != "lo" {
		t.Fatalf("unexpected events: %#v", events)
	}
	if joined(events) != "Hello" {
		t.Fatalf("aggregate mismatch: %q", joined(events))
	}
}

func TestSSEJSONMalformedFrameDropped(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n" +
		"data: {not json\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n" +
		"data: [DONE]\n"
	events := collect(t, &SSEJSON{}, body)
	if joined(events) != "AB" {
		t.Fatalf("expected AB, got %q", joined(events))
	}
}

func TestSSEJSONCommentsAndBlankLines(t *testing.T) {
	body := ": keepalive\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n" +
		"data: [DONE]\n"
	events := collect(t, &SSEJSON{}, body)
	if joined(events) != "x" {
		t.Fatalf("expected x, got %q", joined(events))
	}
}

func TestSSEJSONStopsAtEOFWithoutSentinel(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"end\"}}]}\n"
	events := collect(t, &SSEJSON{}, body)
	if joined(events) != "end" {
		t.Fatalf("expected clean EOF termination, got %q", joined(events))
	}
}

func TestSSEJSONCleanHook(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"a<webblock class=\\\"research\\\">x</webblock>b\"}}]}\n" +
		"data: [DONE]\n"
	events := collect(t, &SSEJSON{Clean: StripWebBlocks}, body)
	if joined(events) != "ab" {
		t.Fatalf("expected webblock stripped, got %q", joined(events))
	}
}

func TestSSEArrayEmitsSuffixes(t *testing.T) {
	body := "data: [{\"id\":\"run\"},{\"content\":\"Hel\"}]\n" +
		"data: [{\"id\":\"run\"},{\"content\":\"Hello\"}]\n" +
		"data: [{\"id\":\"run\"}]\n" +
		"data: [DONE]\n"
	events := collect(t, &SSEArray{}, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %#v", events)
	}
	if joined(events) != "Hello" {
		t.Fatalf("aggregate mismatch: %q", joined(events))
	}
}

func TestSSEPlainData(t *testing.T) {
	body := "data: Hello\ndata:  world\nevent: trylimit\ndata: dropped\n"
	events := collect(t, &SSEPlain{StopEvent: "trylimit"}, body)
	if joined(events) != "Hello world" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestVercelStream(t *testing.T) {
	body := "f:{\"messageId\":\"m1\"}\n" +
		"0:\"Hel\"\n" +
		"0:\"lo\"\n" +
		"e:{}\n"
	events := collect(t, &Vercel{}, body)
	if len(events) != 2 || events[0].Text != "Hel" || events[1].Text != "lo" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestVercelUnescapesPayload(t *testing.T) {
	body := "0:\"He said \\\"hi\\\"\"\n" + "d:{}\n"
	events := collect(t, &Vercel{}, body)
	if joined(events) != `He said "hi"` {
		t.Fatalf("payload not JSON-unescaped: %q", joined(events))
	}
}

func TestVercelDropsMalformedToken(t *testing.T) {
	body := "0:\"ok\"\n0:not-a-json-string\n0:\"fine\"\ne:{}\n"
	events := collect(t, &Vercel{}, body)
	if joined(events) != "okfine" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestHuggingFaceStreamFrames(t *testing.T) {
	body := `{"type":"stream","token":"Hel"}` + "\n" +
		`{"type":"webSearch","sources":[]}` + "\n" +
		`{"type":"stream","token":"lo"}` + "\n" +
		`{"type":"finalAnswer","text":"Hello"}` + "\n"
	events := collect(t, &HuggingFace{}, body)
	if joined(events) != "Hello" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestHuggingFaceFinalAnswerFallback(t *testing.T) {
	body := `{"type":"finalAnswer","text":"All at once"}` + "\n"
	events := collect(t, &HuggingFace{}, body)
	if len(events) != 1 || events[0].Text != "All at once" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestHuggingFaceReasoningWrapped(t *testing.T) {
	body := `{"type":"reasoning","subtype":"stream","token":"because"}` + "\n" +
		`{"type":"stream","token":"42"}` + "\n"
	events := collect(t, &HuggingFace{}, body)
	if len(events) != 2 {
		t.Fatalf("expected reasoning + answer, got %#v", events)
	}
	if events[0].Text != "<think>\nbecause\n</think>\n" {
		t.Fatalf("reasoning not wrapped: %q", events[0].Text)
	}
	if events[1].Text != "42" {
		t.Fatalf("unexpected answer: %q", events[1].Text)
	}
}

func TestOllamaFrames(t *testing.T) {
	body := `{"message":{"content":"Hi "},"done":false}` + "\n" +
		`{"message":{"content":"there"},"done":false}` + "\n" +
		`{"message":{"content":""},"done":true}` + "\n"
	events := collect(t, &Ollama{}, body)
	if joined(events) != "Hi there" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestSentinelSplitToggles(t *testing.T) {
	body := "preamble &KFw6loC9Qvy&Hello\n" +
		"more text\n" +
		"world&KFw6loC9Qvy& trailer\n"
	events := collect(t, &SentinelSplit{}, body)
	if joined(events) != "Hello\nmore text\nworld" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestSentinelSplitDropsAdLines(t *testing.T) {
	body := "&KFw6loC9Qvy&answer&KFw6loC9Qvy&\n" +
		"ad [ChatAI](https://srv.aiflarepro.com/#/?cid=4111) line\n"
	events := collect(t, &SentinelSplit{}, body)
	if joined(events) != "answer" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestPlainLines(t *testing.T) {
	events := collect(t, &PlainLines{}, "alpha\n\nbeta\n")
	if joined(events) != "alpha\nbeta" {
		t.Fatalf("unexpected aggregate: %q", joined(events))
	}
}

func TestWholeBodyClean(t *testing.T) {
	dec := &WholeBody{Clean: func(s string) string { return StripThink(UnescapeHTML(s)) }}
	events := collect(t, dec, "<think>plan</think>Tom &amp; Jerry")
	if len(events) != 1 || events[0].Text != "Tom & Jerry" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestStreamAggregateMatchesEvents(t *testing.T) {
	body := io.NopCloser(strings.NewReader(
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
			"data: [DONE]\n"))

	var final string
	s := New(context.Background(), body, &SSEJSON{}, func(full string) { final = full })

	var got []Event
	for {
		ev, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, ev)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if joined(got) != "Hello" || final != "Hello" {
		t.Fatalf("aggregate mismatch: events=%q onDone=%q", joined(got), final)
	}
}

func TestStreamCloseSkipsOnDone(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	onDone := false
	s := New(context.Background(), pr, &PlainLines{}, func(string) { onDone = true })

	go func() {
		pw.Write([]byte("first\n"))
	}()
	if ev, ok := s.Next(); !ok || ev.Text != "first" {
		t.Fatalf("expected first event, got %q ok=%v", ev.Text, ok)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if onDone {
		t.Fatal("onDone ran for a canceled stream")
	}
	if _, err := s.Text(); err == nil {
		t.Fatal("expected error reading text of closed stream")
	}
}
