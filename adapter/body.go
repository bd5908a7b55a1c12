// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gogama/reqx/reqerr"
)

var errReadTimeout = errors.New("reqx/adapter: read timeout")

// A readTimer cancels a send if the server stays silent for longer than
// the read timeout. It is armed while waiting for the response headers
// and around each body read.
type readTimer struct {
	d      time.Duration
	cancel context.CancelCauseFunc

	mu sync.Mutex
	t  *time.Timer
}

func (rt *readTimer) arm() {
	if rt.d <= 0 {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.t != nil {
		rt.t.Stop()
	}
	rt.t = time.AfterFunc(rt.d, func() { rt.cancel(errReadTimeout) })
}

func (rt *readTimer) disarm() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.t != nil {
		rt.t.Stop()
		rt.t = nil
	}
}

// body is the raw response body handed to request.Response. Read
// errors are reported as reqerr errors.
type body struct {
	rc     io.ReadCloser
	ctx    context.Context
	cancel context.CancelCauseFunc
	timer  *readTimer
	url    string
}

func (b *body) Read(p []byte) (int, error) {
	b.timer.arm()
	n, err := b.rc.Read(p)
	b.timer.disarm()
	if err == nil || err == io.EOF {
		return n, err
	}
	if errors.Is(context.Cause(b.ctx), errReadTimeout) {
		return n, reqerr.NewReadTimeoutError(b.url, err)
	}
	return n, reqerr.New(reqerr.ChunkedEncoding, "read", b.url, err)
}

func (b *body) Close() error {
	b.timer.disarm()
	err := b.rc.Close()
	b.cancel(nil)
	return err
}
