// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogama/reqx/adapter"
	"github.com/gogama/reqx/auth"
	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/redirect"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/timeout"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultUserAgent is the User-Agent header sent by sessions created
// with NewSession.
const DefaultUserAgent = "reqx/1.0"

var nopLogger = zerolog.Nop()

// A Session holds persistent settings, a cookie jar and a table of
// mounted adapters, and uses them to run calls.
//
// Create sessions with NewSession. A session is safe for concurrent
// use by multiple goroutines provided its exported fields are not
// changed while calls are running. Sessions hold pooled connections,
// so they should be reused and closed when no longer needed.
//
// For each call, the session merges the call's request.Spec with its
// own settings, prepares the request, sends it through the adapter
// mounted for the URL, answers authentication challenges and follows
// redirects until a final response or an error ends the call.
type Session struct {
	// Header holds headers sent with every call.
	Header http.Header

	// Jar stores cookies set by responses. If nil, cookies only live
	// for the duration of one call.
	Jar http.CookieJar

	// Auth is the default authorizer.
	Auth request.Authorizer

	// Proxies maps schemes, or scheme://host keys, to proxy URLs.
	Proxies proxy.Map

	// Handlers are run when events occur during a call. If nil, no
	// handlers are run.
	Handlers *HandlerGroup

	// Params are added to the query string of every call.
	Params url.Values

	// Verify is the default certificate verification policy.
	Verify request.Verify

	// Cert is the default client certificate.
	Cert *request.Cert

	// Timeout is the default connect and read timeout.
	Timeout timeout.Timeout

	// MaxRedirects is the redirect ceiling per call. Zero means
	// redirect.DefaultMaxRedirects, and a negative value means no
	// redirect is followed.
	MaxRedirects int

	// TrustEnv enables proxy and CA bundle discovery from the
	// environment.
	TrustEnv bool

	// Stream leaves final response bodies unread unless a call says
	// otherwise.
	Stream bool

	// Logger receives diagnostic events. If nil, nothing is logged.
	Logger *zerolog.Logger

	// ProxyEnv is the proxy environment consulted when TrustEnv is set.
	ProxyEnv *proxy.Env

	mu     sync.RWMutex
	mounts []mount
}

type mount struct {
	prefix  string
	adapter adapter.Adapter
}

// NewSession creates a session with default settings, modified by
// opts, and with HTTPAdapter instances mounted for "https://" and
// "http://" unless an option mounted adapters for those prefixes.
func NewSession(opts ...Option) *Session {
	s := &Session{
		Header: http.Header{
			"User-Agent":      {DefaultUserAgent},
			"Accept":          {"*/*"},
			"Accept-Encoding": {"gzip, deflate"},
			"Connection":      {"keep-alive"},
		},
		Jar:          request.NewJar(),
		MaxRedirects: redirect.DefaultMaxRedirects,
		TrustEnv:     true,
		ProxyEnv:     proxy.FromEnvironment(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, prefix := range []string{"https://", "http://"} {
		if s.mounted(prefix) == nil {
			s.Mount(prefix, s.newHTTPAdapter())
		}
	}
	return s
}

func (s *Session) newHTTPAdapter() *adapter.HTTPAdapter {
	l := s.log().With().Str("component", "adapter").Logger()
	return &adapter.HTTPAdapter{Logger: &l}
}

// Mount registers a for URLs starting with prefix, compared without
// regard to case. The longest matching prefix wins. Mounting over an
// existing prefix replaces its adapter in place.
func (s *Session) Mount(prefix string, a adapter.Adapter) {
	if a == nil {
		panic("reqx: nil adapter")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.mounts {
		if s.mounts[i].prefix == prefix {
			s.mounts[i].adapter = a
			return
		}
	}
	s.mounts = append(s.mounts, mount{prefix, a})
	sort.SliceStable(s.mounts, func(i, j int) bool {
		return len(s.mounts[i].prefix) > len(s.mounts[j].prefix)
	})
}

// Prefixes returns the mounted prefixes in lookup order.
func (s *Session) Prefixes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefixes := make([]string, len(s.mounts))
	for i, m := range s.mounts {
		prefixes[i] = m.prefix
	}
	return prefixes
}

func (s *Session) mounted(prefix string) adapter.Adapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.mounts {
		if m.prefix == prefix {
			return m.adapter
		}
	}
	return nil
}

// Adapter returns the adapter mounted for rawURL. The error is a
// reqerr.InvalidSchema error if no mounted prefix matches.
func (s *Session) Adapter(rawURL string) (adapter.Adapter, error) {
	lower := strings.ToLower(rawURL)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.mounts {
		if strings.HasPrefix(lower, strings.ToLower(m.prefix)) {
			return m.adapter, nil
		}
	}
	return nil, reqerr.New(reqerr.InvalidSchema, "adapter", rawURL,
		fmt.Errorf("no adapter mounted for %q", rawURL))
}

// Close closes every mounted adapter. The returned error joins the
// errors of the adapters which failed to close.
func (s *Session) Close() error {
	s.mu.RLock()
	mounts := append([]mount(nil), s.mounts...)
	s.mu.RUnlock()

	var errs []error
	for _, m := range mounts {
		if err := m.adapter.Close(); err != nil {
			s.log().Warn().Err(err).Str("prefix", m.prefix).Msg("adapter close failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Do runs the call described by spec and returns the final response.
//
// Redirects are followed and digest challenges answered according to
// the session's settings and spec. The returned response's History
// holds every intermediate response, oldest first. A non-2xx final
// status is not an error.
//
// Any error is a *reqerr.Error carrying the history collected before
// the failure. The loop never retries after an error.
func (s *Session) Do(spec *request.Spec) (*request.Response, error) {
	return s.DoWithHandlers(spec, nil)
}

// DoWithHandlers is like Do, but runs handlers in addition to the
// session's handlers. For each event, handlers run first.
func (s *Session) DoWithHandlers(spec *request.Spec, handlers *HandlerGroup) (*request.Response, error) {
	e := &request.Execution{
		Spec:   spec,
		CallID: uuid.NewString(),
	}
	hooks := MergeHooks(handlers, s.Handlers)
	log := s.log().With().Str("call_id", e.CallID).Logger()

	hooks.run(BeforeCall, e)
	e.Start = time.Now()
	s.execute(e, hooks, &log)
	e.End = time.Now()
	hooks.run(AfterCall, e)

	if e.Err != nil {
		log.Debug().Err(e.Err).Int("sends", e.Sends).Msg("call failed")
		return nil, e.Err
	}
	log.Debug().
		Int("status", e.Response.StatusCode).
		Int("redirects", e.Redirects).
		Int("sends", e.Sends).
		Dur("duration", e.Duration()).
		Msg("call complete")
	return e.Response, nil
}

func (s *Session) execute(e *request.Execution, hooks *HandlerGroup, log *zerolog.Logger) {
	spec := e.Spec
	if spec == nil {
		e.Err = reqerr.New(reqerr.InvalidArgument, "prepare", "", errors.New("nil spec"))
		return
	}

	slot := spec.AuthSlot
	if slot == "" {
		slot = e.CallID
	}
	p, a, err := s.prepare(spec, slot)
	if err != nil {
		e.Err = err
		return
	}
	challenger, _ := a.(auth.Challenger)
	if challenger != nil && spec.AuthSlot == "" {
		defer challenger.Release(slot)
	}

	opts := s.mergeEnvironment(spec, p.URL)
	e.Request = p
	e.Proxies = opts.Proxies

	resolver := &redirect.Resolver{
		MaxRedirects: s.MaxRedirects,
		TrustEnv:     s.TrustEnv,
		Env:          s.ProxyEnv,
	}
	follow := spec.FollowRedirects()

	for {
		hooks.run(BeforeSend, e)
		opts.Proxies = e.Proxies
		resp, err := s.Send(e.Request, opts)
		e.Sends++
		if err != nil {
			e.Err = attachHistory(err, e.History)
			return
		}
		e.Response = resp
		hooks.run(Response, e)
		if e.Response == nil {
			e.Response = resp
		}
		resp = e.Response

		if challenger != nil {
			next, err := challenger.Challenge(resp)
			if err != nil {
				e.History = append(e.History, resp)
				e.Response = nil
				e.Err = attachResponse(err, resp, e.History)
				return
			}
			if next != nil {
				log.Debug().Int("status", resp.StatusCode).Msg("answering authentication challenge")
				e.History = append(e.History, resp)
				e.Request = next
				e.Response = nil
				continue
			}
		}

		if !follow {
			if next, err := resolver.Next(e, resp); err == nil {
				resp.Next = next
			}
			break
		}

		next, err := resolver.Rebuild(e, resp)
		if err != nil {
			e.Response = nil
			e.Err = attachHistory(err, e.History)
			return
		}
		if next == nil {
			break
		}
		if challenger != nil {
			challenger.Redirected(resp)
		}
		log.Debug().
			Int("status", resp.StatusCode).
			Str("location", next.URL.String()).
			Int("redirects", e.Redirects).
			Msg("following redirect")
		e.Request = next
		hooks.run(Redirect, e)
		e.Response = nil
	}

	if len(e.History) > 0 {
		e.Response.History = append([]*request.Response(nil), e.History...)
	}
}

// Send sends a prepared request once through the adapter mounted for
// its URL. No redirect is followed and no challenge answered.
func (s *Session) Send(p *request.Prepared, opts adapter.SendOptions) (*request.Response, error) {
	a, err := s.Adapter(p.URL.String())
	if err != nil {
		return nil, err
	}
	resp, err := a.Send(p, opts)
	if err != nil {
		return nil, err
	}
	s.log().Debug().
		Str("method", p.Method).
		Str("url", p.URL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Elapsed).
		Msg("response received")
	return resp, nil
}

// Get issues a GET to the specified URL.
func (s *Session) Get(url string) (*request.Response, error) {
	return Get(s, url)
}

// Head issues a HEAD to the specified URL. Redirects are not followed.
func (s *Session) Head(url string) (*request.Response, error) {
	return Head(s, url)
}

// Options issues an OPTIONS to the specified URL.
func (s *Session) Options(url string) (*request.Response, error) {
	return Options(s, url)
}

// Delete issues a DELETE to the specified URL.
func (s *Session) Delete(url string) (*request.Response, error) {
	return Delete(s, url)
}

// Post issues a POST to the specified URL.
//
// The body parameter may be nil for an empty body, or a string, []byte
// or io.Reader.
func (s *Session) Post(url, contentType string, body interface{}) (*request.Response, error) {
	return Post(s, url, contentType, body)
}

// Put issues a PUT to the specified URL.
func (s *Session) Put(url, contentType string, body interface{}) (*request.Response, error) {
	return Put(s, url, contentType, body)
}

// Patch issues a PATCH to the specified URL.
func (s *Session) Patch(url, contentType string, body interface{}) (*request.Response, error) {
	return Patch(s, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
func (s *Session) PostForm(url string, data url.Values) (*request.Response, error) {
	return PostForm(s, url, data)
}

func (s *Session) log() *zerolog.Logger {
	if s.Logger == nil {
		return &nopLogger
	}
	return s.Logger
}

func attachHistory(err error, history []*request.Response) error {
	return attachResponse(err, nil, history)
}

// attachResponse records resp and history on err, unless the error
// already carries them.
func attachResponse(err error, resp *request.Response, history []*request.Response) error {
	var re *reqerr.Error
	if !errors.As(err, &re) {
		return err
	}
	if re.Response == nil {
		re.Response = resp
	}
	if re.History == nil && len(history) > 0 {
		re.History = append([]*request.Response(nil), history...)
	}
	return err
}
