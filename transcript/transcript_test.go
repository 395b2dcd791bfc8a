package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		got, err := ExtractVideoID(tc.in)
		if err != nil {
			t.Fatalf("ExtractVideoID(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ExtractVideoID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ExtractVideoID("not a video"); !errors.Is(err, ErrInvalidVideoID) {
		t.Fatalf("expected ErrInvalidVideoID, got %v", err)
	}
}

const timedTextXML = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0.0" dur="4.5">Never gonna give you up</text>` +
	`<text start="4.5" dur="3.2">Never gonna let you &amp;#39;down&amp;#39;</text>` +
	`<text start="7.7" dur="2.0">&lt;i&gt;instrumental&lt;/i&gt;</text>` +
	`</transcript>`

func watchPage(tracksJSON string) string {
	return `<html><body>"playabilityStatus":{"status":"OK"},` +
		`"captions":` + tracksJSON + `,"videoDetails":{"videoId":"x"}</body></html>`
}

func newTranscriptServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			fmt.Fprint(w, `<html>no "playabilityStatus": here</html>`)
			return
		}
		tracks := fmt.Sprintf(`{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
			`{"baseUrl":%q,"languageCode":"en","kind":"asr","name":{"simpleText":"English (auto-generated)"}},`+
			`{"baseUrl":%q,"languageCode":"en","name":{"simpleText":"English"}},`+
			`{"baseUrl":%q,"languageCode":"de","name":{"simpleText":"German"}}]}}`,
			srv.URL+"/timedtext?kind=asr", srv.URL+"/timedtext?kind=manual", srv.URL+"/timedtext?lang=de")
		fmt.Fprint(w, watchPage(tracks))
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, timedTextXML)
	})

	client, err := NewClient(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return srv, client
}

func TestGetParsesTimedText(t *testing.T) {
	_, client := newTranscriptServer(t)

	segments, err := client.Get(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].Text != "Never gonna give you up" || segments[0].Start != 0 || segments[0].Duration != 4.5 {
		t.Fatalf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Text != "Never gonna let you 'down'" {
		t.Fatalf("entities not unescaped: %q", segments[1].Text)
	}
	if segments[2].Text != "instrumental" {
		t.Fatalf("formatting tags not stripped: %q", segments[2].Text)
	}
}

func TestGetPrefersManualTrack(t *testing.T) {
	srv, _ := newTranscriptServer(t)

	tracks := []captionTrack{
		{BaseURL: srv.URL + "/timedtext?kind=asr", LanguageCode: "en", Kind: "asr"},
		{BaseURL: srv.URL + "/timedtext?kind=manual", LanguageCode: "en"},
	}
	track, err := pickTrack(tracks, []string{"en"})
	if err != nil {
		t.Fatalf("pickTrack: %v", err)
	}
	if track.Kind == "asr" {
		t.Fatal("picked generated track over manual one")
	}

	track, err = pickTrack(tracks, []string{"any"})
	if err != nil {
		t.Fatalf("pickTrack any: %v", err)
	}
	if track.Kind != "asr" {
		t.Fatal(`"any" should take the first track`)
	}

	if _, err := pickTrack(tracks, []string{"fr"}); !errors.Is(err, ErrNoTranscriptFound) {
		t.Fatalf("expected ErrNoTranscriptFound, got %v", err)
	}
}

func TestGetMissingVideoUnavailable(t *testing.T) {
	_, client := newTranscriptServer(t)

	_, err := client.Get(context.Background(), "aaaaaaaaaaa")
	if !errors.Is(err, ErrVideoUnavailable) {
		t.Fatalf("expected ErrVideoUnavailable, got %v", err)
	}
}

func TestGetDisabledTranscripts(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>"playabilityStatus":{"status":"OK"} but no caption data</html>`)
	})

	client, err := NewClient(Options{BaseURL: srv.URL, Seed: 1})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Get(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrTranscriptsDisabled) {
		t.Fatalf("expected ErrTranscriptsDisabled, got %v", err)
	}
}
