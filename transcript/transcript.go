// Package transcript fetches YouTube caption tracks. The watch page embeds
// a caption track list as JSON; each track points at a timed-text XML
// document of <text start dur> elements.
package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"webscout/identity"
	"webscout/transport"
)

// Failure modes, distinguishable with errors.Is.
var (
	ErrInvalidVideoID      = errors.New("invalid video id")
	ErrTranscriptsDisabled = errors.New("transcripts disabled")
	ErrVideoUnavailable    = errors.New("video unavailable")
	ErrNoTranscriptFound   = errors.New("no transcript found")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrConsentCookie       = errors.New("could not create consent cookie")
)

// Segment is one caption cue.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Options configures a transcript client.
type Options struct {
	Proxy   string
	Timeout time.Duration
	// BaseURL overrides the YouTube origin. Meant for tests.
	BaseURL string
	Seed    int64
	Logger  *slog.Logger
}

// Client fetches transcripts. Safe for sequential use.
type Client struct {
	session *transport.Session
	origin  string
	logger  *slog.Logger
}

func NewClient(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gen := identity.NewGenerator(opts.Seed)
	session, err := transport.NewSession(transport.Config{
		Proxy:   opts.Proxy,
		Timeout: opts.Timeout,
		Logger:  logger,
	}, gen.ForBrowser(identity.Chrome))
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	origin := "https://www.youtube.com"
	if opts.BaseURL != "" {
		origin = strings.TrimRight(opts.BaseURL, "/")
	}
	return &Client{session: session, origin: origin, logger: logger}, nil
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[^0-9A-Za-z_-]|$)`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([0-9A-Za-z_-]{11})`),
}

var bareVideoID = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// ExtractVideoID accepts watch URLs, short youtu.be links, embed URLs, or
// a bare 11-character id.
func ExtractVideoID(videoURL string) (string, error) {
	if bareVideoID.MatchString(videoURL) {
		return videoURL, nil
	}
	for _, pat := range videoIDPatterns {
		if m := pat.FindStringSubmatch(videoURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%q: %w", videoURL, ErrInvalidVideoID)
}

// Get fetches the transcript for a video in the first available requested
// language. No languages means English; "any" takes the first track.
func (c *Client) Get(ctx context.Context, videoURL string, languages ...string) ([]Segment, error) {
	id, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	tracks, err := c.fetchTracks(ctx, id)
	if err != nil {
		return nil, err
	}
	track, err := pickTrack(tracks, languages)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", id, err)
	}
	return c.fetchSegments(ctx, track.BaseURL)
}

// captionTrack mirrors the track entries in the watch page JSON.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

func (c *Client) fetchTracks(ctx context.Context, id string) ([]captionTrack, error) {
	page, err := c.fetchWatchPage(ctx, id)
	if err != nil {
		return nil, err
	}

	// A consent interstitial replaces the watch page in some regions; a
	// CONSENT cookie built from the form value gets past it.
	if strings.Contains(page, `action="https://consent.youtube.com/s"`) {
		if err := c.setConsentCookie(page, id); err != nil {
			return nil, err
		}
		page, err = c.fetchWatchPage(ctx, id)
		if err != nil {
			return nil, err
		}
		if strings.Contains(page, `action="https://consent.youtube.com/s"`) {
			return nil, fmt.Errorf("video %s: %w", id, ErrConsentCookie)
		}
	}

	_, after, found := strings.Cut(page, `"captions":`)
	if !found {
		switch {
		case strings.Contains(page, `class="g-recaptcha"`):
			return nil, fmt.Errorf("video %s: %w", id, ErrTooManyRequests)
		case !strings.Contains(page, `"playabilityStatus":`):
			return nil, fmt.Errorf("video %s: %w", id, ErrVideoUnavailable)
		default:
			return nil, fmt.Errorf("video %s: %w", id, ErrTranscriptsDisabled)
		}
	}
	blob, _, found := strings.Cut(after, `,"videoDetails`)
	if !found {
		return nil, fmt.Errorf("video %s: %w", id, ErrTranscriptsDisabled)
	}

	var captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	if err := json.Unmarshal([]byte(strings.ReplaceAll(blob, "\n", "")), &captions); err != nil {
		return nil, fmt.Errorf("video %s: captions json: %w", id, ErrTranscriptsDisabled)
	}
	if len(captions.Renderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("video %s: %w", id, ErrTranscriptsDisabled)
	}
	return captions.Renderer.CaptionTracks, nil
}

func (c *Client) fetchWatchPage(ctx context.Context, id string) (string, error) {
	hdr := http.Header{}
	hdr.Set("Accept-Language", "en-US")
	resp, err := c.session.Get(ctx, c.origin+"/watch?v="+id, hdr, false)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", id, err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("video %s: watch page status %d: %w", id, resp.StatusCode, ErrVideoUnavailable)
	}
	return html.UnescapeString(resp.Text()), nil
}

var consentValueRe = regexp.MustCompile(`name="v" value="(.*?)"`)

func (c *Client) setConsentCookie(page, id string) error {
	m := consentValueRe.FindStringSubmatch(page)
	if m == nil {
		return fmt.Errorf("video %s: %w", id, ErrConsentCookie)
	}
	return c.session.SetCookie(c.origin, &http.Cookie{
		Name:   "CONSENT",
		Value:  "YES+" + m[1],
		Domain: ".youtube.com",
		Path:   "/",
	})
}

// pickTrack prefers manually created tracks over generated ones for each
// requested language in order. "any" matches the first track outright.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, error) {
	for _, lang := range languages {
		if lang == "any" {
			return tracks[0], nil
		}
		for _, generated := range []bool{false, true} {
			for _, track := range tracks {
				if track.LanguageCode == lang && (track.Kind == "asr") == generated {
					return track, nil
				}
			}
		}
	}
	return captionTrack{}, fmt.Errorf("languages %v: %w", languages, ErrNoTranscriptFound)
}

func (c *Client) fetchSegments(ctx context.Context, trackURL string) ([]Segment, error) {
	hdr := http.Header{}
	hdr.Set("Accept-Language", "en-US")
	resp, err := c.session.Get(ctx, trackURL, hdr, false)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("track status %d: %w", resp.StatusCode, ErrNoTranscriptFound)
	}
	return parseTimedText(resp.Raw)
}

var formattingTagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// parseTimedText decodes the caption XML. Text nodes come double-escaped;
// the xml decoder handles one layer and html unescape handles the other.
func parseTimedText(raw []byte) ([]Segment, error) {
	var doc struct {
		Texts []struct {
			Start string `xml:"start,attr"`
			Dur   string `xml:"dur,attr"`
			Body  string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("timed text: %w", err)
	}

	segments := make([]Segment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := html.UnescapeString(t.Body)
		text = formattingTagRe.ReplaceAllString(text, "")
		if strings.TrimSpace(text) == "" {
			continue
		}
		start, _ := strconv.ParseFloat(t.Start, 64)
		dur, _ := strconv.ParseFloat(t.Dur, 64)
		segments = append(segments, Segment{
			Text:     text,
			Start:    start,
			Duration: dur,
		})
	}
	return segments, nil
}
