// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/timeout"
	"github.com/gogama/reqx/transient"
	"github.com/rs/zerolog"
)

// ErrClosed is wrapped by the error returned from Send after the
// adapter has been closed.
var ErrClosed = errors.New("reqx/adapter: adapter closed")

// Default pool sizing.
const (
	DefaultPoolConnections = 10
	DefaultPoolMaxSize     = 10
)

// An Adapter sends prepared requests for the URL prefixes it is
// mounted on.
type Adapter interface {
	// Send performs one request/response exchange. It must not follow
	// redirects or retry.
	Send(p *request.Prepared, opts SendOptions) (*request.Response, error)
	// Close releases all resources held by the adapter.
	Close() error
}

// SendOptions holds the per-send settings resolved by the session.
type SendOptions struct {
	// Stream, if true, leaves the response body unread.
	Stream bool
	// Timeout is the connect and read timeout.
	Timeout timeout.Timeout
	// Verify is the server certificate verification policy.
	Verify request.Verify
	// Cert is the client certificate, or nil.
	Cert *request.Cert
	// Proxies are the resolved proxies for the send.
	Proxies proxy.Map
}

// HTTPAdapter is the built-in Adapter for HTTP and HTTPS URLs.
//
// The zero value is ready to use. An HTTPAdapter is safe for concurrent
// use by multiple goroutines.
type HTTPAdapter struct {
	// PoolFactory builds connection pools. If nil, DefaultPoolFactory is
	// used.
	PoolFactory PoolFactory
	// PoolConnections is the number of pools cached per route. Zero
	// means DefaultPoolConnections.
	PoolConnections int
	// PoolMaxSize is the number of idle connections kept per pool. Zero
	// means DefaultPoolMaxSize.
	PoolMaxSize int
	// Logger receives diagnostic events. If nil, nothing is logged.
	Logger *zerolog.Logger

	mu      sync.Mutex
	closed  bool
	direct  *poolManager
	proxied map[string]*poolManager
}

// Send implements Adapter.
func (a *HTTPAdapter) Send(p *request.Prepared, opts SendOptions) (*request.Response, error) {
	rawURL := p.URL.String()
	rt, err := a.roundTripper(p.URL, opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(p.Context())
	timer := &readTimer{d: opts.Timeout.Read, cancel: cancel}
	var connected atomic.Bool
	trace := &httptrace.ClientTrace{
		GotConn:              func(httptrace.GotConnInfo) { connected.Store(true) },
		WroteRequest:         func(httptrace.WroteRequestInfo) { timer.arm() },
		GotFirstResponseByte: func() { timer.disarm() },
	}
	reqCtx := httptrace.WithClientTrace(context.WithValue(ctx, connectTimeoutKey{}, opts.Timeout.Connect), trace)

	req, err := p.ToRequest(reqCtx)
	if err != nil {
		cancel(nil)
		return nil, reqerr.New(reqerr.InvalidURL, "send", rawURL, err)
	}

	a.log().Debug().
		Str("method", p.Method).
		Str("url", rawURL).
		Stringer("timeout", opts.Timeout).
		Msg("sending request")

	start := time.Now()
	resp, err := rt.RoundTrip(req)
	timer.disarm()
	if err != nil {
		cause := context.Cause(ctx)
		cancel(nil)
		return nil, translate(err, cause, rawURL, connected.Load())
	}

	r := &request.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Proto:      resp.Proto,
		Header:     resp.Header,
		URL:        p.Clone().URL,
		Request:    p,
		Elapsed:    time.Since(start),
		Raw: &body{
			rc:     resp.Body,
			ctx:    ctx,
			cancel: cancel,
			timer:  timer,
			url:    rawURL,
		},
	}

	if p.Jar != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			p.Jar.SetCookies(p.URL, cookies)
		}
	}

	if !opts.Stream {
		if _, err = r.Content(); err != nil {
			var re *reqerr.Error
			if !errors.As(err, &re) {
				err = reqerr.New(reqerr.ChunkedEncoding, "read", rawURL, err)
			}
			return nil, err
		}
	}

	return r, nil
}

// Close implements Adapter. It closes every pool and proxy manager.
// Subsequent sends fail with an error wrapping ErrClosed.
func (a *HTTPAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.direct != nil {
		a.direct.clear()
	}
	for _, m := range a.proxied {
		m.clear()
	}
	n := len(a.proxied)
	a.proxied = nil
	a.log().Debug().Int("proxy_managers", n).Msg("adapter closed")
	return nil
}

func (a *HTTPAdapter) roundTripper(u *url.URL, opts SendOptions) (http.RoundTripper, error) {
	key := PoolKeyFor(u, opts.Verify, opts.Cert)
	proxyURL := proxy.Select(u, opts.Proxies)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, reqerr.NewConnectionError(u.String(), ErrClosed)
	}

	m := a.direct
	if proxyURL != "" {
		var err error
		if m, err = a.proxyManagerFor(proxyURL); err != nil {
			return nil, reqerr.NewProxyError(u.String(), err)
		}
	} else if m == nil {
		m = newPoolManager(nil, nil, a.poolConnections())
		a.direct = m
	}

	if rt, ok := m.get(key); ok {
		return rt, nil
	}

	cfg := PoolConfig{
		Key:         key,
		Proxy:       m.proxy,
		ProxyHeader: m.proxyHeader,
		DialContext: dial,
		MaxSize:     a.poolMaxSize(),
	}
	if key.Scheme == "https" || key.Scheme == "wss" {
		tlsConfig, err := tlsConfigFor(key)
		if err != nil {
			return nil, reqerr.New(reqerr.SSL, "tls", u.String(), err)
		}
		cfg.TLS = tlsConfig
	}

	factory := a.PoolFactory
	if factory == nil {
		factory = DefaultPoolFactory
	}
	rt, err := factory(cfg)
	if err != nil {
		return nil, reqerr.NewConnectionError(u.String(), err)
	}
	m.put(key, rt)

	a.log().Debug().
		Stringer("pool", key).
		Str("proxy", proxyURL).
		Msg("created connection pool")

	return rt, nil
}

// proxyManagerFor returns the manager for proxyURL, creating it if
// needed. The caller must hold a.mu.
func (a *HTTPAdapter) proxyManagerFor(proxyURL string) (*poolManager, error) {
	if m, ok := a.proxied[proxyURL]; ok {
		return m, nil
	}
	u, err := proxy.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	if a.proxied == nil {
		a.proxied = make(map[string]*poolManager)
	}
	m := newPoolManager(u, proxy.Headers(proxyURL), a.poolConnections())
	a.proxied[proxyURL] = m
	a.log().Debug().Str("proxy", u.Redacted()).Msg("created proxy manager")
	return m, nil
}

func (a *HTTPAdapter) poolConnections() int {
	if a.PoolConnections > 0 {
		return a.PoolConnections
	}
	return DefaultPoolConnections
}

func (a *HTTPAdapter) poolMaxSize() int {
	if a.PoolMaxSize > 0 {
		return a.PoolMaxSize
	}
	return DefaultPoolMaxSize
}

var nopLogger = zerolog.Nop()

func (a *HTTPAdapter) log() *zerolog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return &nopLogger
}

type connectTimeoutKey struct{}

func dial(ctx context.Context, network, addr string) (net.Conn, error) {
	d := net.Dialer{KeepAlive: 30 * time.Second}
	if t, ok := ctx.Value(connectTimeoutKey{}).(time.Duration); ok && t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return d.DialContext(ctx, network, addr)
}

func translate(err, cause error, rawURL string, connected bool) error {
	if errors.Is(cause, errReadTimeout) {
		return reqerr.NewReadTimeoutError(rawURL, err)
	}
	switch transient.Categorize(err) {
	case transient.TLS:
		return reqerr.NewSSLError(rawURL, err)
	case transient.Proxy:
		return reqerr.NewProxyError(rawURL, err)
	case transient.Timeout:
		if connected {
			return reqerr.NewReadTimeoutError(rawURL, err)
		}
		return reqerr.NewConnectTimeoutError(rawURL, err)
	default:
		return reqerr.NewConnectionError(rawURL, err)
	}
}
