// Package identity produces plausible browser fingerprints: user-agent,
// client-hint headers, platform and accept-language values that are
// internally consistent for one browser/OS/version tuple. Providers refresh
// the fingerprint after auth-like upstream failures.
package identity

import (
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Browser families in the curated table.
const (
	Chrome  = "chrome"
	Firefox = "firefox"
	Safari  = "safari"
	Edge    = "edge"
	Opera   = "opera"
)

// Version ranges carried per family.
var browserVersions = map[string][2]int{
	Chrome:  {48, 120},
	Firefox: {48, 121},
	Safari:  {605, 617},
	Edge:    {79, 120},
	Opera:   {48, 104},
}

var osVersions = map[string][]string{
	"windows": {"10.0", "11.0"},
	"mac":     {"10_15_7", "11_0", "12_0", "13_0", "14_0"},
	"linux":   {"x86_64", "i686"},
	"ios":     {"14_0", "15_0", "16_0", "17_0"},
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-US,en;q=0.9,en-IN;q=0.8",
	"en-GB,en;q=0.9,en-US;q=0.8",
	"en-US,en;q=0.8,de;q=0.5",
}

// Identity is one browser fingerprint. Opaque to adapters; passed whole to
// the transport as the header seed.
type Identity struct {
	UserAgent       string
	AcceptLanguage  string
	SecCHUA         string
	SecCHUAMobile   string
	SecCHUAPlatform string
	Browser         string
	Version         int
	OS              string
}

// Headers returns the header set derived from this fingerprint. All fields
// are produced together; callers must install them as one unit.
func (id *Identity) Headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", id.UserAgent)
	h.Set("Accept-Language", id.AcceptLanguage)
	if id.SecCHUA != "" {
		h.Set("Sec-CH-UA", id.SecCHUA)
		h.Set("Sec-CH-UA-Mobile", id.SecCHUAMobile)
		h.Set("Sec-CH-UA-Platform", id.SecCHUAPlatform)
	}
	return h
}

// Generator selects fingerprints from the table. Safe for one goroutine;
// each provider owns its own generator.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator seeds a generator. A zero seed uses the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Random picks any fingerprint from the table.
func (g *Generator) Random() *Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	families := []string{Chrome, Firefox, Safari, Edge, Opera}
	return g.buildLocked(families[g.rng.Intn(len(families))])
}

// ForBrowser picks a fingerprint for one browser family. An unknown hint
// falls back to a random family.
func (g *Generator) ForBrowser(name string) *Identity {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := browserVersions[name]; !ok {
		return g.Random()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buildLocked(name)
}

// Refresh returns a fingerprint different from prev. With a single-row
// table this can only vary the version, but the UA string always changes
// unless the table is exhausted.
func (g *Generator) Refresh(prev *Identity) *Identity {
	for i := 0; i < 16; i++ {
		next := g.Random()
		if prev == nil || next.UserAgent != prev.UserAgent {
			return next
		}
	}
	return g.Random()
}

func (g *Generator) pickLocked(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) buildLocked(browser string) *Identity {
	bounds := browserVersions[browser]
	version := bounds[0] + g.rng.Intn(bounds[1]-bounds[0]+1)

	id := &Identity{
		Browser:        browser,
		Version:        version,
		AcceptLanguage: g.pickLocked(acceptLanguages),
		SecCHUAMobile:  "?0",
	}

	switch browser {
	case Safari:
		device := g.pickLocked([]string{"mac", "ios"})
		if device == "mac" {
			ver := g.pickLocked(osVersions["mac"])
			id.OS = "mac"
			id.UserAgent = fmt.Sprintf("Mozilla/5.0 (Macintosh; Intel Mac OS X %s) ", ver)
		} else {
			ver := g.pickLocked(osVersions["ios"])
			hw := g.pickLocked([]string{"iPhone", "iPad"})
			id.OS = "ios"
			id.SecCHUAMobile = "?1"
			id.UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; CPU OS %s like Mac OS X) ", hw, ver)
		}
		id.UserAgent += fmt.Sprintf("AppleWebKit/%d.1.15 (KHTML, like Gecko) Version/%d.0 Safari/%d.1.15",
			version, version/100, version)
	default:
		osType := g.pickLocked([]string{"windows", "mac", "linux"})
		osVer := g.pickLocked(osVersions[osType])
		id.OS = osType

		var platform string
		switch osType {
		case "windows":
			platform = "Windows NT " + osVer + "; Win64; x64"
			id.SecCHUAPlatform = `"Windows"`
		case "mac":
			platform = "Macintosh; Intel Mac OS X " + osVer
			id.SecCHUAPlatform = `"macOS"`
		default:
			platform = "X11; Linux " + osVer
			id.SecCHUAPlatform = `"Linux"`
		}

		id.UserAgent = fmt.Sprintf("Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) ", platform)
		switch browser {
		case Chrome:
			id.UserAgent += fmt.Sprintf("Chrome/%d.0.0.0 Safari/537.36", version)
			id.SecCHUA = fmt.Sprintf(`"Not)A;Brand";v="99", "Google Chrome";v="%d", "Chromium";v="%d"`, version, version)
		case Firefox:
			id.UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; rv:%d.0) Gecko/20100101 Firefox/%d.0", platform, version, version)
			id.SecCHUAPlatform = ""
		case Edge:
			id.UserAgent += fmt.Sprintf("Chrome/%d.0.0.0 Safari/537.36 Edg/%d.0.0.0", version, version)
			id.SecCHUA = fmt.Sprintf(`"Not)A;Brand";v="99", "Microsoft Edge";v="%d", "Chromium";v="%d"`, version, version)
		case Opera:
			id.UserAgent += fmt.Sprintf("Chrome/%d.0.0.0 Safari/537.36 OPR/%d.0.0.0", version, version)
			id.SecCHUA = fmt.Sprintf(`"Not)A;Brand";v="99", "Opera";v="%d", "Chromium";v="%d"`, version, version)
		}
	}
	return id
}
