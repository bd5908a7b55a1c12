// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrepared(t *testing.T) {
	testCases := []struct {
		name    string
		method  string
		url     string
		body    interface{}
		asserts func(*testing.T, *Prepared, error)
	}{
		{
			name: "empty method means GET",
			url:  "https://foo.com",
			asserts: func(t *testing.T, p *Prepared, err error) {
				require.NoError(t, err)
				assert.Equal(t, "GET", p.Method)
				assert.Equal(t, "https://foo.com", p.URL.String())
				assert.Empty(t, p.Header.Get("Content-Length"))
			},
		},
		{
			name:   "invalid method",
			method: "GET POST",
			url:    "https://foo.com",
			asserts: func(t *testing.T, p *Prepared, err error) {
				assert.Nil(t, p)
				assert.EqualError(t, err, `reqx/request: invalid method "GET POST"`)
			},
		},
		{
			name:   "empty port removed",
			method: "PUT",
			url:    "http://foo.com:/bar",
			body:   "baz",
			asserts: func(t *testing.T, p *Prepared, err error) {
				require.NoError(t, err)
				assert.Equal(t, "foo.com", p.URL.Host)
				assert.Equal(t, "3", p.Header.Get("Content-Length"))
			},
		},
		{
			name:   "POST without body",
			method: "POST",
			url:    "http://foo.com",
			asserts: func(t *testing.T, p *Prepared, err error) {
				require.NoError(t, err)
				assert.Equal(t, "0", p.Header.Get("Content-Length"))
			},
		},
		{
			name:   "bad URL",
			method: "GET",
			url:    ":",
			asserts: func(t *testing.T, p *Prepared, err error) {
				assert.Nil(t, p)
				assert.Error(t, err)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			p, err := NewPrepared(testCase.method, testCase.url, testCase.body)
			testCase.asserts(t, p, err)
		})
	}
}

func TestPrepared_Clone(t *testing.T) {
	p, err := NewPrepared("POST", "https://user:pw@foo.com/a?b=c", "body")
	require.NoError(t, err)
	p.Header.Set("Authorization", "secret")
	c := p.Clone()
	c.Header.Del("Authorization")
	c.URL.Host = "bar.com"
	c.URL.User = url.User("other")
	assert.Equal(t, "secret", p.Header.Get("Authorization"))
	assert.Equal(t, "foo.com", p.URL.Host)
	assert.Equal(t, "user", p.URL.User.Username())
	assert.Same(t, p.Body, c.Body)
}

func TestPrepared_Context(t *testing.T) {
	p, err := NewPrepared("GET", "http://foo.com", nil)
	require.NoError(t, err)
	assert.Equal(t, context.Background(), p.Context())
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	p2 := p.WithContext(ctx)
	assert.Same(t, ctx, p2.Context())
	assert.Equal(t, context.Background(), p.Context())
	assert.PanicsWithValue(t, nilCtxMsg, func() {
		//lint:ignore SA1012 testing nil context
		p.WithContext(nil) // nolint
	})
}

func TestPrepared_PathURL(t *testing.T) {
	p, err := NewPrepared("GET", "http://foo.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "/", p.PathURL())
	p, err = NewPrepared("GET", "http://foo.com/a%20b/c?x=1&y=2", nil)
	require.NoError(t, err)
	assert.Equal(t, "/a%20b/c?x=1&y=2", p.PathURL())
}

func TestPrepared_ToRequest(t *testing.T) {
	t.Run("sized body", func(t *testing.T) {
		p, err := NewPrepared("PUT", "http://foo.com/x", "hello")
		require.NoError(t, err)
		p.Header.Set("X-Foo", "bar")
		r, err := p.ToRequest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, int64(5), r.ContentLength)
		assert.Equal(t, "bar", r.Header.Get("X-Foo"))
		assert.Empty(t, r.Header.Get("Content-Length"))
		assert.Nil(t, r.GetBody)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b))
	})
	t.Run("chunked body", func(t *testing.T) {
		p, err := NewPrepared("POST", "http://foo.com/x", &plainReader{strings.NewReader("abc")})
		require.NoError(t, err)
		assert.Equal(t, "chunked", p.Header.Get("Transfer-Encoding"))
		r, err := p.ToRequest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"chunked"}, r.TransferEncoding)
		assert.Equal(t, int64(-1), r.ContentLength)
		assert.Empty(t, r.Header.Get("Transfer-Encoding"))
	})
	t.Run("host header", func(t *testing.T) {
		p, err := NewPrepared("GET", "http://foo.com/x", nil)
		require.NoError(t, err)
		p.Header.Set("Host", "virtual.example")
		r, err := p.ToRequest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "virtual.example", r.Host)
		assert.Empty(t, r.Header.Get("Host"))
	})
}

func TestPrepared_PrepareCookies(t *testing.T) {
	p, err := NewPrepared("GET", "http://foo.com/x", nil)
	require.NoError(t, err)
	p.PrepareCookies()
	assert.Empty(t, p.Header.Get("Cookie"))

	jar := NewCallJar(nil, map[string]string{"b": "2", "a": "1"})
	p.Jar = jar
	p.PrepareCookies()
	assert.Equal(t, "a=1; b=2", p.Header.Get("Cookie"))

	p2 := p.Clone()
	p2.Header.Set("Cookie", "explicit=1")
	p2.PrepareCookies()
	assert.Equal(t, "explicit=1", p2.Header.Get("Cookie"))
}
