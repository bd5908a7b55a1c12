// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"net/http"
	"net/url"
	"os"

	"github.com/gogama/reqx/adapter"
	"github.com/gogama/reqx/config"
	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/timeout"
	"github.com/rs/zerolog"
)

// An Option configures a Session created by NewSession.
type Option func(*Session)

// WithHeader sets a persistent header, replacing any default of the
// same name.
func WithHeader(name, value string) Option {
	return func(s *Session) {
		s.Header.Set(name, value)
	}
}

// WithJar replaces the session's cookie jar.
func WithJar(jar http.CookieJar) Option {
	return func(s *Session) {
		s.Jar = jar
	}
}

// WithAuth sets the session's default authorizer.
func WithAuth(a request.Authorizer) Option {
	return func(s *Session) {
		s.Auth = a
	}
}

// WithProxies sets the session's proxies.
func WithProxies(proxies proxy.Map) Option {
	return func(s *Session) {
		s.Proxies = proxies.Clone()
	}
}

// WithProxyEnv replaces the proxy environment read at session creation.
func WithProxyEnv(env *proxy.Env) Option {
	return func(s *Session) {
		s.ProxyEnv = env
	}
}

// WithParams sets the session's query parameters.
func WithParams(params url.Values) Option {
	return func(s *Session) {
		s.Params = params
	}
}

// WithVerify sets the session's certificate verification policy.
func WithVerify(v request.Verify) Option {
	return func(s *Session) {
		s.Verify = v
	}
}

// WithCert sets the session's client certificate.
func WithCert(c *request.Cert) Option {
	return func(s *Session) {
		s.Cert = c
	}
}

// WithTimeout sets the session's default timeout.
func WithTimeout(t timeout.Timeout) Option {
	return func(s *Session) {
		s.Timeout = t
	}
}

// WithMaxRedirects sets the redirect ceiling. A negative value disables
// redirects.
func WithMaxRedirects(n int) Option {
	return func(s *Session) {
		s.MaxRedirects = n
	}
}

// WithTrustEnv sets whether proxies and CA bundles are discovered from
// the environment.
func WithTrustEnv(trust bool) Option {
	return func(s *Session) {
		s.TrustEnv = trust
	}
}

// WithStream sets the session's default streaming mode.
func WithStream(stream bool) Option {
	return func(s *Session) {
		s.Stream = stream
	}
}

// WithHandlers installs the session's event handlers.
func WithHandlers(g *HandlerGroup) Option {
	return func(s *Session) {
		s.Handlers = g
	}
}

// WithLogger sets the session logger. The adapters mounted by
// NewSession log through a child of it.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Session) {
		s.Logger = l
	}
}

// WithAdapter mounts a for prefix.
func WithAdapter(prefix string, a adapter.Adapter) Option {
	return func(s *Session) {
		s.Mount(prefix, a)
	}
}

// WithConfig applies settings loaded by config.Load. A zero
// MaxRedirects in cfg disables redirects. If cfg names a log level and
// no logger is set, a stderr logger at that level is created.
func WithConfig(cfg *config.Session) Option {
	return func(s *Session) {
		if cfg == nil {
			return
		}
		for name, value := range cfg.Headers {
			s.Header.Set(name, value)
		}
		if len(cfg.Params) > 0 {
			s.Params = make(url.Values, len(cfg.Params))
			for k, v := range cfg.Params {
				s.Params.Set(k, v)
			}
		}
		if len(cfg.Proxies) > 0 {
			s.Proxies = proxy.Map(cfg.Proxies).Clone()
		}
		switch {
		case !cfg.Verify:
			s.Verify = request.Verify{Insecure: true}
		case cfg.CABundle != "":
			s.Verify = request.Verify{CA: cfg.CABundle}
		default:
			s.Verify = request.Verify{}
		}
		if cfg.Cert != "" {
			s.Cert = &request.Cert{File: cfg.Cert, KeyFile: cfg.Key}
		}
		s.MaxRedirects = cfg.MaxRedirects
		if s.MaxRedirects == 0 {
			s.MaxRedirects = -1
		}
		s.TrustEnv = cfg.TrustEnv
		s.Stream = cfg.Stream
		s.Timeout = timeout.Split(cfg.Timeouts())

		if cfg.LogLevel == "" {
			return
		}
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return
		}
		var l zerolog.Logger
		if s.Logger != nil {
			l = s.Logger.Level(level)
		} else {
			l = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
		}
		s.Logger = &l
	}
}
