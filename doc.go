// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqx runs HTTP calls through a session which prepares requests,
sends them over pooled connections, follows redirects and answers
digest authentication challenges.

Create a Session to begin making requests.

	s := reqx.NewSession()
	defer s.Close()
	resp, err := s.Get("https://www.example.com")
	...
	resp, err := s.Post("https://www.example.com/upload",
		"application/json", &buf)
	...
	resp, err := s.PostForm("http://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

For full control over a single call, describe it with a request.Spec.
Any field left unset falls back to the session's setting:

	resp, err := s.Do(&request.Spec{
		Method:  "PUT",
		URL:     "https://api.example.com/items/1",
		Header:  http.Header{"Content-Type": {"application/json"}},
		Body:    payload,
		Timeout: &timeout.Timeout{Connect: time.Second, Read: 10 * time.Second},
		Auth:    auth.NewDigest("user", "pass"),
	})

Persistent settings can be given as options, or loaded from a file and
the environment with package config:

	cfg, err := config.Load("reqx.yaml", "")
	...
	s := reqx.NewSession(reqx.WithConfig(cfg))

Every intermediate response of a call is kept in the final response's
History. Errors are *reqerr.Error values which classify the failure by
Kind and carry the history collected before it:

	resp, err := s.Get(u)
	if errors.Is(err, reqerr.ErrTooManyRedirects) {
		...
	}

To hook into the details of a call, install a handler into the
appropriate handler chain:

	handlers := &reqx.HandlerGroup{}
	handlers.PushBack(reqx.BeforeSend, reqx.HandlerFunc(
		func(_ reqx.Event, e *request.Execution) {
			log.Printf("Send %d to %s", e.Sends+1, e.Request.URL)
		}),
	)
	s := reqx.NewSession(reqx.WithHandlers(handlers))

Adapters are chosen by URL prefix. Mount a custom adapter.Adapter to
take over a scheme or a host:

	s.Mount("https://internal.example.com/", myAdapter)

Package reqx provides basic interfaces for each method of the session
(Doer, Getter, Header, Poster and FormPoster); a combined interface
that composes all the basic methods (Executor); and utility functions
for working with a Doer (Inflate, Get, Head, Options, Delete, Post,
Put, Patch and PostForm).
*/
package reqx
