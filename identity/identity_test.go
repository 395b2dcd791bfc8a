package identity

import (
	"fmt"
	"strings"
	"testing"
)

func TestForBrowserConsistency(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 50; i++ {
		id := g.ForBrowser("chrome")
		if id.Browser != Chrome {
			t.Fatalf("wrong family: %#v", id)
		}
		if !strings.Contains(id.UserAgent, fmt.Sprintf("Chrome/%d.0.0.0", id.Version)) {
			t.Fatalf("UA does not carry the chosen version: %q", id.UserAgent)
		}
		if !strings.Contains(id.SecCHUA, fmt.Sprintf(`"Google Chrome";v="%d"`, id.Version)) {
			t.Fatalf("Sec-CH-UA inconsistent with UA: %q vs %q", id.SecCHUA, id.UserAgent)
		}
		if id.Version < 48 || id.Version > 120 {
			t.Fatalf("chrome version out of table range: %d", id.Version)
		}
	}
}

func TestFirefoxHasNoClientHints(t *testing.T) {
	g := NewGenerator(2)
	id := g.ForBrowser("firefox")
	if id.SecCHUA != "" {
		t.Fatalf("firefox fingerprint must not carry Sec-CH-UA: %q", id.SecCHUA)
	}
	if !strings.Contains(id.UserAgent, "Firefox/") {
		t.Fatalf("unexpected firefox UA: %q", id.UserAgent)
	}
	if h := id.Headers(); h.Get("Sec-CH-UA") != "" {
		t.Fatal("headers leaked client hints for firefox")
	}
}

func TestUnknownBrowserFallsBack(t *testing.T) {
	g := NewGenerator(3)
	id := g.ForBrowser("netscape")
	if id == nil || id.UserAgent == "" {
		t.Fatal("fallback identity missing")
	}
	if _, ok := browserVersions[id.Browser]; !ok {
		t.Fatalf("fallback picked unknown family: %q", id.Browser)
	}
}

func TestRefreshChangesFingerprint(t *testing.T) {
	g := NewGenerator(4)
	prev := g.Random()
	for i := 0; i < 20; i++ {
		next := g.Refresh(prev)
		if next.UserAgent == prev.UserAgent {
			t.Fatalf("refresh reproduced fingerprint: %q", next.UserAgent)
		}
		prev = next
	}
}

func TestHeadersDerivedTogether(t *testing.T) {
	g := NewGenerator(5)
	id := g.ForBrowser("edge")
	h := id.Headers()
	if h.Get("User-Agent") != id.UserAgent {
		t.Fatal("header UA mismatch")
	}
	if h.Get("Accept-Language") != id.AcceptLanguage {
		t.Fatal("header accept-language mismatch")
	}
	if h.Get("Sec-CH-UA") != id.SecCHUA || h.Get("Sec-CH-UA-Platform") != id.SecCHUAPlatform {
		t.Fatal("client-hint headers mismatch")
	}
}
