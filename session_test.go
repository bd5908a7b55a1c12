// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gogama/reqx/adapter"
	"github.com/gogama/reqx/auth"
	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/timeout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(opts ...Option) *Session {
	return NewSession(append([]Option{WithTrustEnv(false)}, opts...)...)
}

func redirectTo(server *httptest.Server, target string, status int) string {
	return server.URL + "/redirect-to?url=" + url.QueryEscape(target) + "&status=" + strconv.Itoa(status)
}

// sendCounter counts BeforeSend events and keeps the final execution.
type sendCounter struct {
	sends int
	final *request.Execution
}

func (c *sendCounter) handlers() *HandlerGroup {
	g := &HandlerGroup{}
	g.PushBack(BeforeSend, HandlerFunc(func(Event, *request.Execution) { c.sends++ }))
	g.PushBack(AfterCall, HandlerFunc(func(_ Event, e *request.Execution) { c.final = e }))
	return g
}

func readEcho(t *testing.T, resp *request.Response) echo {
	b, err := resp.Content()
	require.NoError(t, err)
	e, err := decodeEcho(b)
	require.NoError(t, err, "body: %s", b)
	return e
}

func TestSession_Get(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			s := newTestSession()
			defer s.Close()
			resp, err := s.Get(server.URL + "/echo?q=1")
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
			assert.Empty(t, resp.History)
			assert.Nil(t, resp.Next)
			require.NotNil(t, resp.Request)
			assert.Equal(t, "GET", resp.Request.Method)
			e := readEcho(t, resp)
			assert.Equal(t, "GET", e.Method)
			assert.Equal(t, []string{"1"}, e.Query["q"])
			assert.Equal(t, []string{DefaultUserAgent}, e.Header["User-Agent"])
			assert.Equal(t, []string{"*/*"}, e.Header["Accept"])
		})
	}
}

func TestSession_Verbs(t *testing.T) {
	s := newTestSession()
	defer s.Close()
	u := httpServer.URL + "/echo"
	testCases := []struct {
		name   string
		call   func() (*request.Response, error)
		method string
		body   string
	}{
		{"Options", func() (*request.Response, error) { return s.Options(u) }, "OPTIONS", ""},
		{"Delete", func() (*request.Response, error) { return s.Delete(u) }, "DELETE", ""},
		{"Post", func() (*request.Response, error) { return s.Post(u, "text/plain", "p") }, "POST", "p"},
		{"Put", func() (*request.Response, error) { return s.Put(u, "text/plain", []byte("u")) }, "PUT", "u"},
		{"Patch", func() (*request.Response, error) { return s.Patch(u, "text/plain", strings.NewReader("a")) }, "PATCH", "a"},
		{"PostForm", func() (*request.Response, error) { return s.PostForm(u, url.Values{"k": {"v"}}) }, "POST", "k=v"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resp, err := testCase.call()
			require.NoError(t, err)
			e := readEcho(t, resp)
			assert.Equal(t, testCase.method, e.Method)
			assert.Equal(t, testCase.body, e.Body)
		})
	}
	t.Run("Head", func(t *testing.T) {
		resp, err := s.Head(httpServer.URL + "/redirect/1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Empty(t, resp.History)
	})
}

func TestSession_Redirects(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		var c sendCounter
		s := newTestSession(WithHandlers(c.handlers()))
		defer s.Close()
		resp, err := s.Get(httpServer.URL + "/redirect/3")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		require.Len(t, resp.History, 3)
		for _, h := range resp.History {
			assert.Equal(t, http.StatusFound, h.StatusCode)
		}
		assert.Equal(t, "/redirect/3", resp.History[0].URL.Path)
		assert.Equal(t, "/echo", resp.URL.Path)
		assert.Equal(t, 4, c.sends)
		assert.Equal(t, 3, c.final.Redirects)
	})
	t.Run("too many", func(t *testing.T) {
		var c sendCounter
		s := newTestSession(WithMaxRedirects(2), WithHandlers(c.handlers()))
		defer s.Close()
		resp, err := s.Get(httpServer.URL + "/redirect/5")
		assert.Nil(t, resp)
		require.Error(t, err)
		assert.True(t, errors.Is(err, reqerr.ErrTooManyRedirects))
		var re *reqerr.Error
		require.True(t, errors.As(err, &re))
		assert.Len(t, re.History, 3)
		require.NotNil(t, re.Response)
		assert.Equal(t, http.StatusFound, re.Response.StatusCode)
		assert.Equal(t, 3, c.sends)
		assert.Same(t, err, c.final.Err)
		assert.Nil(t, c.final.Response)
	})
	t.Run("disabled", func(t *testing.T) {
		s := newTestSession(WithMaxRedirects(-1))
		defer s.Close()
		_, err := s.Get(httpServer.URL + "/redirect/1")
		assert.True(t, reqerr.IsKind(err, reqerr.TooManyRedirects))
	})
	t.Run("not followed", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		follow := false
		resp, err := s.Do(&request.Spec{URL: httpServer.URL + "/redirect/2", AllowRedirects: &follow})
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Empty(t, resp.History)
		require.NotNil(t, resp.Next)
		assert.Equal(t, "/redirect/1", resp.Next.URL.Path)
		assert.Equal(t, "GET", resp.Next.Method)
	})
	t.Run("303 becomes GET without body", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		resp, err := s.Post(redirectTo(httpServer, "/echo", http.StatusSeeOther), "text/plain", "data")
		require.NoError(t, err)
		e := readEcho(t, resp)
		assert.Equal(t, "GET", e.Method)
		assert.Empty(t, e.Body)
		assert.Empty(t, e.Header["Content-Type"])
		require.Len(t, resp.History, 1)
		assert.Equal(t, http.StatusSeeOther, resp.History[0].StatusCode)
	})
	t.Run("302 POST becomes GET", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		resp, err := s.Post(redirectTo(httpServer, "/echo", http.StatusFound), "text/plain", "data")
		require.NoError(t, err)
		e := readEcho(t, resp)
		assert.Equal(t, "GET", e.Method)
		assert.Empty(t, e.Body)
	})
	t.Run("307 keeps method and body", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		for _, body := range []interface{}{"data", strings.NewReader("data")} {
			resp, err := s.Post(redirectTo(httpServer, "/echo", http.StatusTemporaryRedirect), "text/plain", body)
			require.NoError(t, err)
			e := readEcho(t, resp)
			assert.Equal(t, "POST", e.Method)
			assert.Equal(t, "data", e.Body)
			assert.Equal(t, []string{"text/plain"}, e.Header["Content-Type"])
		}
	})
	t.Run("308 with unrewindable body", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		body := io.MultiReader(strings.NewReader("data"))
		_, err := s.Post(redirectTo(httpServer, "/echo", http.StatusPermanentRedirect), "text/plain", body)
		assert.True(t, reqerr.IsKind(err, reqerr.UnrewindableBody), "unexpected error %v", err)
	})
	t.Run("authorization kept on same host", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.Basic{Username: "u", Password: "p"}))
		defer s.Close()
		resp, err := s.Get(redirectTo(httpServer, "/echo", http.StatusFound))
		require.NoError(t, err)
		e := readEcho(t, resp)
		assert.Equal(t, []string{auth.BasicHeader("u", "p")}, e.Header["Authorization"])
	})
	t.Run("authorization stripped on new origin", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.Basic{Username: "u", Password: "p"}))
		defer s.Close()
		resp, err := s.Get(redirectTo(httpServer, httpsServer.URL+"/echo", http.StatusFound))
		require.NoError(t, err)
		assert.Equal(t, "https", resp.URL.Scheme)
		e := readEcho(t, resp)
		assert.Empty(t, e.Header["Authorization"])
	})
	t.Run("fragment inherited", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		resp, err := s.Get(httpServer.URL + "/redirect/1#section")
		require.NoError(t, err)
		assert.Equal(t, "section", resp.URL.Fragment)
	})
}

func TestSession_Cookies(t *testing.T) {
	s := newTestSession()
	defer s.Close()

	resp, err := s.Get(httpServer.URL + "/cookies/set?flavor=choc")
	require.NoError(t, err)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "choc", readEcho(t, resp).Cookies["flavor"])

	resp, err = s.Get(httpServer.URL + "/echo")
	require.NoError(t, err)
	assert.Equal(t, "choc", readEcho(t, resp).Cookies["flavor"], "cookie not persisted in session jar")

	resp, err = s.Do(&request.Spec{
		URL:     httpServer.URL + "/redirect/1",
		Cookies: map[string]string{"flavor": "mint", "size": "large"},
	})
	require.NoError(t, err)
	cookies := readEcho(t, resp).Cookies
	assert.Equal(t, "mint", cookies["flavor"])
	assert.Equal(t, "large", cookies["size"])

	resp, err = s.Get(httpServer.URL + "/echo")
	require.NoError(t, err)
	cookies = readEcho(t, resp).Cookies
	assert.Equal(t, "choc", cookies["flavor"], "per-call cookie leaked into session")
	assert.NotContains(t, cookies, "size")
}

func TestSession_DigestAuth(t *testing.T) {
	u := httpServer.URL + "/digest-auth/auth/user/passwd"

	t.Run("challenge answered", func(t *testing.T) {
		var c sendCounter
		s := newTestSession(WithHandlers(c.handlers()))
		defer s.Close()
		resp, err := s.Do(&request.Spec{URL: u, Auth: auth.NewDigest("user", "passwd")})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "authenticated user nc=00000001", resp.Text())
		require.Len(t, resp.History, 1)
		assert.Equal(t, http.StatusUnauthorized, resp.History[0].StatusCode)
		assert.Equal(t, 2, c.sends)
	})
	t.Run("preemptive in named slot", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")))
		defer s.Close()
		resp, err := s.Do(&request.Spec{URL: u, AuthSlot: "worker-1"})
		require.NoError(t, err)
		assert.Equal(t, "authenticated user nc=00000001", resp.Text())
		resp, err = s.Do(&request.Spec{URL: u, AuthSlot: "worker-1"})
		require.NoError(t, err)
		assert.Equal(t, "authenticated user nc=00000002", resp.Text())
		assert.Empty(t, resp.History)
	})
	t.Run("fresh slot per call", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")))
		defer s.Close()
		for i := 0; i < 2; i++ {
			resp, err := s.Get(u)
			require.NoError(t, err)
			assert.Equal(t, "authenticated user nc=00000001", resp.Text())
			assert.Len(t, resp.History, 1)
		}
	})
	t.Run("no qop", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")))
		defer s.Close()
		resp, err := s.Get(httpServer.URL + "/digest-auth/none/user/passwd")
		require.NoError(t, err)
		assert.Equal(t, "authenticated user nc=", resp.Text())
	})
	t.Run("wrong password", func(t *testing.T) {
		var c sendCounter
		s := newTestSession(WithAuth(auth.NewDigest("user", "wrong")), WithHandlers(c.handlers()))
		defer s.Close()
		resp, err := s.Get(u)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Len(t, resp.History, 1)
		assert.Equal(t, 2, c.sends)
	})
	t.Run("stream body replayed", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")))
		defer s.Close()
		resp, err := s.Post(u, "text/plain", strings.NewReader("stream"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "authenticated user nc=00000001 body=stream", resp.Text())
		assert.Equal(t, "stream", resp.Header.Get("X-Received-Body"))
		require.Len(t, resp.History, 1)
		assert.Equal(t, "stream", resp.History[0].Header.Get("X-Received-Body"))
	})
	t.Run("in-memory body replayed", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")))
		defer s.Close()
		resp, err := s.Put(u, "text/plain", "bytes")
		require.NoError(t, err)
		assert.Equal(t, "authenticated user nc=00000001 body=bytes", resp.Text())
	})
	t.Run("stream without seek", func(t *testing.T) {
		var c sendCounter
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")), WithHandlers(c.handlers()))
		defer s.Close()
		resp, err := s.Put(u, "text/plain", readerOnly{strings.NewReader("stream")})
		assert.Nil(t, resp)
		require.ErrorIs(t, err, reqerr.ErrUnrewindableBody)
		var re *reqerr.Error
		require.ErrorAs(t, err, &re)
		require.NotNil(t, re.Response)
		assert.Equal(t, http.StatusUnauthorized, re.Response.StatusCode)
		assert.Equal(t, "stream", re.Response.Header.Get("X-Received-Body"))
		require.Len(t, re.History, 1)
		assert.Same(t, re.Response, re.History[0])
		assert.Equal(t, 1, c.sends)
		assert.Same(t, err, c.final.Err)
	})
	t.Run("seek fails on replay", func(t *testing.T) {
		s := newTestSession(WithAuth(auth.NewDigest("user", "passwd")))
		defer s.Close()
		body := &seekLimit{Reader: strings.NewReader("stream"), left: 3}
		_, err := s.Put(u, "text/plain", body)
		require.ErrorIs(t, err, reqerr.ErrUnrewindableBody)
		var re *reqerr.Error
		require.ErrorAs(t, err, &re)
		require.NotNil(t, re.Response)
		assert.Equal(t, http.StatusUnauthorized, re.Response.StatusCode)
		assert.Len(t, re.History, 1)
	})
}

// readerOnly hides every method of its reader except Read.
type readerOnly struct {
	r io.Reader
}

func (o readerOnly) Read(b []byte) (int, error) {
	return o.r.Read(b)
}

// seekLimit fails every Seek after the first left calls.
type seekLimit struct {
	*strings.Reader
	left int
}

func (s *seekLimit) Seek(offset int64, whence int) (int64, error) {
	if s.left <= 0 {
		return 0, errors.New("seek no longer supported")
	}
	s.left--
	return s.Reader.Seek(offset, whence)
}

func TestSession_BasicAuthFromURL(t *testing.T) {
	s := newTestSession()
	defer s.Close()
	u, err := url.Parse(httpServer.URL + "/basic-auth/alice/secret")
	require.NoError(t, err)
	u.User = url.UserPassword("alice", "secret")
	resp, err := s.Get(u.String())
	require.NoError(t, err)
	assert.Equal(t, "authenticated alice", resp.Text())
	assert.Nil(t, resp.URL.User)
}

func TestSession_Hooks(t *testing.T) {
	var evts []string
	record := func(prefix string) HandlerFunc {
		return func(evt Event, e *request.Execution) {
			evts = append(evts, prefix+evt.Name())
		}
	}
	session := &HandlerGroup{}
	for _, evt := range Events() {
		session.PushBack(evt, record(""))
	}
	s := newTestSession(WithHandlers(session))
	defer s.Close()

	t.Run("event order", func(t *testing.T) {
		evts = nil
		_, err := s.Get(httpServer.URL + "/redirect/1")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"BeforeCall",
			"BeforeSend", "Response", "Redirect",
			"BeforeSend", "Response",
			"AfterCall",
		}, evts)
	})
	t.Run("per-call handlers first", func(t *testing.T) {
		evts = nil
		call := &HandlerGroup{}
		call.PushBack(AfterCall, record("call."))
		_, err := s.DoWithHandlers(&request.Spec{URL: httpServer.URL + "/echo"}, call)
		require.NoError(t, err)
		assert.Equal(t, []string{"BeforeCall", "BeforeSend", "Response", "call.AfterCall", "AfterCall"}, evts)
	})
	t.Run("redirect event state", func(t *testing.T) {
		var status int
		var next string
		call := &HandlerGroup{}
		call.PushBack(Redirect, HandlerFunc(func(_ Event, e *request.Execution) {
			status = e.StatusCode()
			next = e.Request.URL.Path
		}))
		_, err := s.DoWithHandlers(&request.Spec{URL: httpServer.URL + "/redirect/2"}, call)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, "/echo", next)
	})
	t.Run("response replaced", func(t *testing.T) {
		call := &HandlerGroup{}
		call.PushBack(Response, HandlerFunc(func(_ Event, e *request.Execution) {
			_ = e.Response.Close()
			e.Response = &request.Response{
				StatusCode: 299,
				Header:     http.Header{},
				URL:        e.Request.URL,
				Request:    e.Request,
			}
		}))
		resp, err := s.DoWithHandlers(&request.Spec{URL: httpServer.URL + "/redirect/1"}, call)
		require.NoError(t, err)
		assert.Equal(t, 299, resp.StatusCode)
		assert.Empty(t, resp.History)
	})
	t.Run("response cleared", func(t *testing.T) {
		call := &HandlerGroup{}
		call.PushBack(Response, HandlerFunc(func(_ Event, e *request.Execution) {
			e.Response = nil
		}))
		resp, err := s.DoWithHandlers(&request.Spec{
			URL:  httpServer.URL + "/digest-auth/auth/user/passwd",
			Auth: auth.NewDigest("user", "passwd"),
		}, call)
		require.NoError(t, err)
		assert.Equal(t, "authenticated user nc=00000001", resp.Text())
		require.Len(t, resp.History, 1)
		assert.Equal(t, http.StatusUnauthorized, resp.History[0].StatusCode)
	})
	t.Run("after call on error", func(t *testing.T) {
		var final *request.Execution
		call := &HandlerGroup{}
		call.PushBack(AfterCall, HandlerFunc(func(_ Event, e *request.Execution) { final = e }))
		_, err := s.DoWithHandlers(&request.Spec{URL: "gopher://example.com/"}, call)
		require.Error(t, err)
		require.NotNil(t, final)
		assert.Same(t, err, final.Err)
		assert.Nil(t, final.Response)
		assert.True(t, final.Ended())
		assert.NotEmpty(t, final.CallID)
	})
}

func TestSession_Mount(t *testing.T) {
	s := newTestSession()
	defer s.Close()
	assert.Equal(t, []string{"https://", "http://"}, s.Prefixes())

	special := &stubAdapter{}
	s.Mount(httpServer.URL+"/special/", special)
	other := &stubAdapter{}
	s.Mount("http://a.example/", other)
	s.Mount("http://b.example/", other)
	assert.Equal(t, []string{httpServer.URL + "/special/", "http://a.example/", "http://b.example/", "https://", "http://"}, s.Prefixes())

	replacement := &stubAdapter{}
	s.Mount("http://a.example/", replacement)
	assert.Equal(t, []string{httpServer.URL + "/special/", "http://a.example/", "http://b.example/", "https://", "http://"}, s.Prefixes())

	a, err := s.Adapter("HTTP://A.EXAMPLE/x")
	require.NoError(t, err)
	assert.Same(t, replacement, a)

	resp, err := s.Get(httpServer.URL + "/special/thing")
	require.NoError(t, err)
	assert.Equal(t, "stub", resp.Text())
	require.Len(t, special.sent, 1)
	assert.Equal(t, "/special/thing", special.sent[0].URL.Path)

	resp, err = s.Get(httpServer.URL + "/echo")
	require.NoError(t, err)
	assert.Equal(t, "GET", readEcho(t, resp).Method)

	_, err = s.Adapter("gopher://example.com/")
	assert.True(t, reqerr.IsKind(err, reqerr.InvalidSchema))
	_, err = s.Get("gopher://example.com/")
	assert.True(t, errors.Is(err, reqerr.ErrInvalidSchema))

	assert.Panics(t, func() { s.Mount("x://", nil) })
}

func TestSession_Close(t *testing.T) {
	t.Run("closed adapters", func(t *testing.T) {
		s := newTestSession()
		_, err := s.Get(httpServer.URL + "/echo")
		require.NoError(t, err)
		require.NoError(t, s.Close())
		_, err = s.Get(httpServer.URL + "/echo")
		assert.True(t, reqerr.IsKind(err, reqerr.Connection))
		assert.True(t, errors.Is(err, adapter.ErrClosed))
	})
	t.Run("errors joined", func(t *testing.T) {
		s := newTestSession(
			WithAdapter("x://", &stubAdapter{closeErr: errors.New("x failed")}),
			WithAdapter("y://", &stubAdapter{closeErr: errors.New("y failed")}),
		)
		err := s.Close()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x failed")
		assert.Contains(t, err.Error(), "y failed")
	})
	t.Run("option mounts win", func(t *testing.T) {
		stub := &stubAdapter{}
		s := newTestSession(WithAdapter("http://", stub))
		defer s.Close()
		a, err := s.Adapter("http://example.com/")
		require.NoError(t, err)
		assert.Same(t, stub, a)
	})
}

func TestSession_Transport(t *testing.T) {
	t.Run("gzip decoded", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		resp, err := s.Get(httpServer.URL + "/gzip")
		require.NoError(t, err)
		assert.Equal(t, "squeezed", resp.Text())
	})
	t.Run("stream", func(t *testing.T) {
		s := newTestSession(WithStream(true))
		defer s.Close()
		resp, err := s.Get(httpServer.URL + "/echo")
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Raw)
		require.NoError(t, err)
		require.NoError(t, resp.Close())
		e, err := decodeEcho(b)
		require.NoError(t, err)
		assert.Equal(t, "GET", e.Method)
	})
	t.Run("read timeout", func(t *testing.T) {
		s := newTestSession(WithTimeout(timeout.Split(time.Second, 50*time.Millisecond)))
		defer s.Close()
		_, err := s.Get(httpServer.URL + "/slow?delay=2s")
		require.Error(t, err)
		assert.True(t, reqerr.IsKind(err, reqerr.ReadTimeout), "unexpected error %v", err)
		var re *reqerr.Error
		require.True(t, errors.As(err, &re))
		assert.True(t, re.Timeout())
	})
	t.Run("connection refused", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closedURL := closed.URL
		closed.Close()
		s := newTestSession()
		defer s.Close()
		_, err := s.Get(closedURL + "/")
		assert.True(t, reqerr.IsKind(err, reqerr.Connection), "unexpected error %v", err)
	})
	t.Run("proxy with credentials", func(t *testing.T) {
		proxyURL, err := url.Parse(httpServer.URL)
		require.NoError(t, err)
		proxyURL.User = url.UserPassword("puser", "ppass")
		s := newTestSession(WithProxies(proxy.Map{"http": proxyURL.String()}))
		defer s.Close()
		resp, err := s.Get("http://origin.invalid/echo")
		require.NoError(t, err)
		e := readEcho(t, resp)
		assert.Equal(t, "/echo", e.Path)
		assert.Equal(t, []string{auth.BasicHeader("puser", "ppass")}, e.Header["Proxy-Authorization"])
	})
	t.Run("verify off", func(t *testing.T) {
		s := newTestSession()
		defer s.Close()
		resp, err := s.Do(&request.Spec{URL: httpsServer.URL + "/echo", Verify: request.VerifyOff()})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})
}

// stubAdapter answers every send with a fixed body.
type stubAdapter struct {
	sent     []*request.Prepared
	closeErr error
}

func (a *stubAdapter) Send(p *request.Prepared, _ adapter.SendOptions) (*request.Response, error) {
	a.sent = append(a.sent, p)
	return &request.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Header:     http.Header{},
		URL:        p.URL,
		Request:    p,
		Raw:        io.NopCloser(strings.NewReader("stub")),
	}, nil
}

func (a *stubAdapter) Close() error {
	return a.closeErr
}
