// Package transport provides the HTTP session providers send through: a
// cookie jar persisted across requests, proxy support, split timeouts, and
// a TLS ClientHello that impersonates the active browser identity.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"webscout/identity"
)

// Config tunes one session. The zero value is a plain direct session with
// the default timeout.
type Config struct {
	// Proxy accepts http://, https:// or socks5:// URLs.
	Proxy string
	// Timeout bounds one whole request including streamed body read.
	Timeout time.Duration
	// ConnectTimeout bounds dialing; defaults to Timeout when zero.
	ConnectTimeout time.Duration
	// Impersonate pins the TLS ClientHello to the identity's browser
	// family. Endpoints behind naive fingerprint gates need this.
	Impersonate bool
	// InsecureSkipVerify disables certificate verification.
	InsecureSkipVerify bool

	Logger *slog.Logger
}

const defaultTimeout = 30 * time.Second

// Session is the per-provider HTTP client. Safe only for the provider's
// single in-flight call.
type Session struct {
	client  *http.Client
	cfg     Config
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	ident   *identity.Identity
	headers http.Header
}

// NewSession builds a session around the given identity.
func NewSession(cfg Config, ident *identity.Identity) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = cfg.Timeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rt, err := newRoundTripper(cfg, ident)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	s := &Session{
		client: &http.Client{
			Transport: rt,
			Jar:       jar,
		},
		cfg:     cfg,
		logger:  logger,
		timeout: cfg.Timeout,
	}
	s.ApplyIdentity(ident)
	return s, nil
}

// ApplyIdentity swaps every identity-derived header and re-pins the
// ClientHello as one unit. Piecemeal header updates would leak a mixed
// fingerprint.
func (s *Session) ApplyIdentity(ident *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ident = ident
	if ident == nil {
		s.headers = http.Header{}
		return
	}
	s.headers = ident.Headers()
	if s.cfg.Impersonate {
		if rt, ok := s.client.Transport.(*impersonatingTransport); ok {
			rt.setHello(helloFor(ident.Browser))
		}
	}
}

// Identity returns the active fingerprint.
func (s *Session) Identity() *identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ident
}

// SetCookie installs one cookie for the given URL into the jar.
func (s *Session) SetCookie(rawURL string, c *http.Cookie) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("cookie url: %w", err)
	}
	s.client.Jar.SetCookies(u, []*http.Cookie{c})
	return nil
}

// Response wraps one upstream reply. For streaming requests Body remains
// open and the caller owns closing it; otherwise the body is fully read
// into Raw.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
	Raw        []byte
}

// Text decodes Raw tolerantly (UTF-8, then latin-1).
func (r *Response) Text() string {
	return DecodeBody(r.Raw)
}

// Post issues a POST. hdr is merged over the identity-derived session
// headers; per spec precedence the identity wins for User-Agent and the
// static provider headers win for Content-Type.
func (s *Session) Post(ctx context.Context, rawURL string, hdr http.Header, body []byte, stream bool) (*Response, error) {
	return s.do(ctx, http.MethodPost, rawURL, hdr, body, stream)
}

// Get issues a GET.
func (s *Session) Get(ctx context.Context, rawURL string, hdr http.Header, stream bool) (*Response, error) {
	return s.do(ctx, http.MethodGet, rawURL, hdr, nil, stream)
}

// Do issues a fully caller-built request, applying session headers with
// the same precedence as Post. Used by adapters with bespoke envelopes
// (multipart bodies).
func (s *Session) Do(req *http.Request, stream bool) (*Response, error) {
	s.applyHeaders(req)
	return s.roundTrip(req, stream)
}

func (s *Session) do(ctx context.Context, method, rawURL string, hdr http.Header, body []byte, stream bool) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	s.applyHeaders(req)
	return s.roundTrip(req, stream)
}

// applyHeaders overlays identity-derived headers. Identity wins for its own
// fields; everything else set on the request stays.
func (s *Session) applyHeaders(req *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, vs := range s.headers {
		if len(vs) > 0 {
			req.Header.Set(k, vs[0])
		}
	}
}

func (s *Session) roundTrip(req *http.Request, stream bool) (*Response, error) {
	ctx := req.Context()
	var cancel context.CancelFunc
	if _, has := ctx.Deadline(); !has && s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		req = req.WithContext(ctx)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, classify(err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}
	if stream && resp.StatusCode < 400 {
		body := resp.Body
		if cancel != nil {
			body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		}
		out.Body = body
		return out, nil
	}

	defer resp.Body.Close()
	if cancel != nil {
		defer cancel()
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, classify(err)
	}
	out.Raw = raw
	return out, nil
}

// cancelOnClose releases the request timeout when a streamed body is done.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
