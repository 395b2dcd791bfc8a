package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/proxy"

	"webscout/identity"
)

// helloFor maps a browser family to the utls ClientHello it should present.
func helloFor(browser string) utls.ClientHelloID {
	switch browser {
	case identity.Firefox:
		return utls.HelloFirefox_Auto
	case identity.Safari:
		return utls.HelloSafari_Auto
	default:
		// Chrome, Edge and Opera all ride the Chromium hello.
		return utls.HelloChrome_Auto
	}
}

// newRoundTripper builds the session transport. Without impersonation this
// is a stock http.Transport; with it, TLS dials go through utls so the
// ClientHello matches the identity's browser family.
func newRoundTripper(cfg Config, ident *identity.Identity) (http.RoundTripper, error) {
	dial, proxyFunc, err := dialerFor(cfg)
	if err != nil {
		return nil, err
	}

	base := &http.Transport{
		Proxy:       proxyFunc,
		DialContext: dial,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
	}

	if !cfg.Impersonate {
		return base, nil
	}

	it := &impersonatingTransport{
		dial:     dial,
		insecure: cfg.InsecureSkipVerify,
	}
	hello := utls.HelloChrome_Auto
	if ident != nil {
		hello = helloFor(ident.Browser)
	}
	it.setHello(hello)
	// utls owns the handshake, so the ALPN result is ours to honor; we
	// pin http/1.1 to keep the streaming read path uniform.
	base.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	base.DialTLSContext = it.dialTLS
	it.inner = base
	return it, nil
}

// impersonatingTransport swaps the ClientHello under a lock so an identity
// refresh mid-session repins the fingerprint for subsequent dials.
type impersonatingTransport struct {
	inner    *http.Transport
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)
	insecure bool

	mu    sync.Mutex
	hello utls.ClientHelloID
}

func (t *impersonatingTransport) setHello(id utls.ClientHelloID) {
	t.mu.Lock()
	t.hello = id
	t.mu.Unlock()
	if t.inner != nil {
		t.inner.CloseIdleConnections()
	}
}

func (t *impersonatingTransport) getHello() utls.ClientHelloID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hello
}

func (t *impersonatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.inner.RoundTrip(req)
}

func (t *impersonatingTransport) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	raw, err := t.dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	conn := utls.UClient(raw, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: t.insecure,
		NextProtos:         []string{"http/1.1"},
	}, t.getHello())
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, err
	}
	return conn, nil
}

// dialerFor resolves the configured proxy into a dial function. SOCKS
// proxies are handled by dialing through x/net/proxy; HTTP proxies ride
// the transport's Proxy hook.
func dialerFor(cfg Config) (func(ctx context.Context, network, addr string) (net.Conn, error), func(*http.Request) (*url.URL, error), error) {
	netDialer := &net.Dialer{Timeout: cfg.ConnectTimeout}

	if cfg.Proxy == "" {
		return netDialer.DialContext, http.ProxyFromEnvironment, nil
	}

	u, err := url.Parse(cfg.Proxy)
	if err != nil {
		return nil, nil, fmt.Errorf("proxy url %q: %w", cfg.Proxy, err)
	}

	switch u.Scheme {
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if u.User != nil {
			pw, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: pw}
		}
		d, err := proxy.SOCKS5("tcp", u.Host, auth, netDialer)
		if err != nil {
			return nil, nil, fmt.Errorf("socks5 proxy: %w", err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, nil, fmt.Errorf("socks5 proxy: dialer lacks context support")
		}
		return cd.DialContext, nil, nil
	case "http", "https":
		return netDialer.DialContext, http.ProxyURL(u), nil
	default:
		return nil, nil, fmt.Errorf("proxy url %q: unsupported scheme %s", cfg.Proxy, u.Scheme)
	}
}
