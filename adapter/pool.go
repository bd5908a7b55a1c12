// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogama/reqx/request"
)

// Certificate requirement values stored in PoolKey.CertReqs.
const (
	CertRequired = "CERT_REQUIRED"
	CertNone     = "CERT_NONE"
)

var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
}

// DefaultPort returns the default port for scheme. Unknown schemes
// default to 443.
func DefaultPort(scheme string) int {
	if p, ok := defaultPorts[strings.ToLower(scheme)]; ok {
		return p
	}
	return 443
}

// A PoolKey identifies a connection pool. Two sends share a pool only
// if their keys are equal.
type PoolKey struct {
	Scheme string
	Host   string
	Port   int

	// CertReqs is CertRequired or CertNone when verification is a plain
	// on/off switch, and empty when a CA path is given.
	CertReqs   string
	CACerts    string
	CACertsDir string
	CertFile   string
	KeyFile    string
}

// PoolKeyFor computes the pool key for a send to u with the given
// verification policy and client certificate.
func PoolKeyFor(u *url.URL, verify request.Verify, cert *request.Cert) PoolKey {
	scheme := strings.ToLower(u.Scheme)
	k := PoolKey{
		Scheme: scheme,
		Host:   strings.ToLower(u.Hostname()),
		Port:   DefaultPort(scheme),
	}
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			k.Port = n
		}
	}

	switch {
	case verify.IsPath():
		if fi, err := os.Stat(verify.CA); err == nil && fi.IsDir() {
			k.CACertsDir = verify.CA
		} else {
			k.CACerts = verify.CA
		}
	case verify.Insecure:
		k.CertReqs = CertNone
	default:
		k.CertReqs = CertRequired
	}

	if cert != nil && cert.File != "" {
		k.CertFile = cert.File
		k.KeyFile = cert.KeyFile
	}

	return k
}

// Addr returns the host:port dial address of the key.
func (k PoolKey) Addr() string {
	return net.JoinHostPort(k.Host, strconv.Itoa(k.Port))
}

// String returns a compact description of the key for logging.
func (k PoolKey) String() string {
	s := k.Scheme + "://" + k.Addr()
	switch {
	case k.CACertsDir != "":
		s += " ca_dir=" + k.CACertsDir
	case k.CACerts != "":
		s += " ca=" + k.CACerts
	case k.CertReqs != "":
		s += " " + k.CertReqs
	}
	if k.CertFile != "" {
		s += " cert=" + k.CertFile
	}
	return s
}

// PoolConfig describes a connection pool to be built by a PoolFactory.
type PoolConfig struct {
	// Key is the pool key.
	Key PoolKey
	// TLS is the client TLS configuration for the pool. It is nil for
	// plain HTTP pools.
	TLS *tls.Config
	// Proxy is the proxy all requests in the pool go through, or nil.
	Proxy *url.URL
	// ProxyHeader holds headers for the proxy, sent on CONNECT.
	ProxyHeader http.Header
	// DialContext dials connections, honoring the connect timeout of the
	// send which triggered the dial.
	DialContext func(ctx context.Context, network, addr string) (net.Conn, error)
	// MaxSize is the maximum number of idle connections kept.
	MaxSize int
}

// A PoolFactory builds the round tripper backing one connection pool.
//
// The returned round tripper must not follow redirects or retry
// requests. If it implements CloseIdleConnections, the adapter calls
// it when the pool is discarded.
type PoolFactory func(cfg PoolConfig) (http.RoundTripper, error)

// DefaultPoolFactory builds pools backed by *http.Transport.
func DefaultPoolFactory(cfg PoolConfig) (http.RoundTripper, error) {
	t := &http.Transport{
		DialContext:           cfg.DialContext,
		TLSClientConfig:       cfg.TLS,
		ProxyConnectHeader:    cfg.ProxyHeader,
		ForceAttemptHTTP2:     cfg.Proxy == nil,
		MaxIdleConns:          cfg.MaxSize,
		MaxIdleConnsPerHost:   cfg.MaxSize,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		DisableCompression:    true,
	}
	if cfg.Proxy != nil {
		t.Proxy = http.ProxyURL(cfg.Proxy)
	}
	return t, nil
}

type idleCloser interface {
	CloseIdleConnections()
}

func closePool(rt http.RoundTripper) {
	if c, ok := rt.(idleCloser); ok {
		c.CloseIdleConnections()
	}
}

// A poolManager holds the pools for one route: either direct, or
// through one proxy. Pools are evicted oldest first once the manager
// holds more than max.
type poolManager struct {
	proxy       *url.URL
	proxyHeader http.Header
	pools       map[PoolKey]http.RoundTripper
	order       []PoolKey
	max         int
}

func newPoolManager(proxy *url.URL, proxyHeader http.Header, max int) *poolManager {
	return &poolManager{
		proxy:       proxy,
		proxyHeader: proxyHeader,
		pools:       make(map[PoolKey]http.RoundTripper),
		max:         max,
	}
}

func (m *poolManager) get(k PoolKey) (http.RoundTripper, bool) {
	rt, ok := m.pools[k]
	return rt, ok
}

func (m *poolManager) put(k PoolKey, rt http.RoundTripper) {
	m.pools[k] = rt
	m.order = append(m.order, k)
	for m.max > 0 && len(m.order) > m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		closePool(m.pools[oldest])
		delete(m.pools, oldest)
	}
}

func (m *poolManager) clear() {
	for _, rt := range m.pools {
		closePool(rt)
	}
	m.pools = make(map[PoolKey]http.RoundTripper)
	m.order = nil
}
