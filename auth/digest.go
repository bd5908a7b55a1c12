// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

// maxChallenges bounds the number of challenges answered per call.
const maxChallenges = 2

// A Challenger is an Authorizer which can answer authentication
// challenges sent back by the server.
type Challenger interface {
	request.Authorizer
	// Challenge inspects resp and, if it is a challenge the Challenger
	// can answer, returns a new request retrying resp.Request with
	// credentials. It returns nil if resp should be returned as is.
	Challenge(resp *request.Response) (*request.Prepared, error)
	// Redirected is called with each redirect response that is about to
	// be followed.
	Redirected(resp *request.Response)
	// Release discards the state kept for slot.
	Release(slot string)
}

type slotKey struct{}

// WithSlot returns a copy of ctx naming the authentication state slot
// used by requests carrying it.
func WithSlot(ctx context.Context, slot string) context.Context {
	return context.WithValue(ctx, slotKey{}, slot)
}

// SlotFrom returns the slot named by ctx, or the empty string.
func SlotFrom(ctx context.Context) string {
	slot, _ := ctx.Value(slotKey{}).(string)
	return slot
}

// Digest implements HTTP Digest authentication.
//
// A Digest value may be shared by concurrent calls provided each call
// uses its own slot. Sessions arrange this automatically.
type Digest struct {
	Username string
	Password string

	mu     sync.Mutex
	states map[string]*DigestState
}

// NewDigest creates a Digest authenticator.
func NewDigest(username, password string) *Digest {
	return &Digest{Username: username, Password: password}
}

// State returns the challenge state for slot, creating it if needed.
func (d *Digest) State(slot string) *DigestState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.states == nil {
		d.states = make(map[string]*DigestState)
	}
	s, ok := d.states[slot]
	if !ok {
		s = &DigestState{d: d, calls: 1}
		d.states[slot] = s
	}
	return s
}

// Release implements Challenger.
func (d *Digest) Release(slot string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.states, slot)
}

// Authorize implements request.Authorizer. If the slot has already
// seen a challenge, the Authorization header is set preemptively.
func (d *Digest) Authorize(p *request.Prepared) error {
	s := d.State(SlotFrom(p.Context()))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastNonce != "" {
		if h, ok := s.header(p.Method, p.URL); ok {
			p.Header.Set("Authorization", h)
		}
	}
	s.pos, s.hasPos = p.Body.Position()
	s.calls = 1
	return nil
}

// Challenge implements Challenger.
//
// A response is answered if its status is 4xx, its WWW-Authenticate
// header names the digest scheme, and fewer than two challenges have
// been answered in the slot since the last Authorize or redirect. The
// challenged response is consumed and closed.
//
// A streaming body is rewound before the answer is built. If it cannot
// be rewound, the error is a reqerr.UnrewindableBody error carrying
// resp.
func (d *Digest) Challenge(resp *request.Response) (*request.Prepared, error) {
	if resp == nil || resp.Request == nil {
		return nil, nil
	}
	p := resp.Request
	s := d.State(SlotFrom(p.Context()))
	s.mu.Lock()
	defer s.mu.Unlock()

	if resp.StatusCode < 400 || resp.StatusCode >= 500 {
		s.calls = 1
		return nil, nil
	}

	chal, ok := ParseChallenge(resp.Header.Get("WWW-Authenticate"))
	if !ok || s.calls >= maxChallenges {
		s.calls = 1
		return nil, nil
	}
	s.calls++
	s.chal = chal

	_, _ = resp.Content()
	_ = resp.Close()

	if p.Body.IsStream() {
		if err := p.Body.Rewind(); err != nil {
			re := reqerr.New(reqerr.UnrewindableBody, "auth", p.URL.String(), err)
			re.Response = resp
			return nil, re
		}
	}

	next := p.Clone()
	if next.Jar != nil {
		next.Header.Del("Cookie")
		next.PrepareCookies()
	}
	if h, ok := s.header(next.Method, next.URL); ok {
		next.Header.Set("Authorization", h)
	}
	return next, nil
}

// Redirected implements Challenger. It resets the challenge counter.
func (d *Digest) Redirected(resp *request.Response) {
	if !resp.IsRedirect() || resp.Request == nil {
		return
	}
	s := d.State(SlotFrom(resp.Request.Context()))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 1
}

// DigestState is the challenge state of one Digest slot.
type DigestState struct {
	d *Digest

	mu         sync.Mutex
	chal       Challenge
	lastNonce  string
	nonceCount int
	pos        int64
	hasPos     bool
	calls      int
}

// SetChallenge replaces the stored challenge, as if the server had
// just sent it.
func (s *DigestState) SetChallenge(c Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chal = c
}

// BodyPosition returns the body offset recorded by the last Authorize
// in the slot. The second return value is false if the body was not a
// seekable stream.
func (s *DigestState) BodyPosition() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, s.hasPos
}

// NonceCount returns the nonce count used in the last header built.
func (s *DigestState) NonceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonceCount
}

// Header builds the Authorization header for a request with the given
// method and URL from the stored challenge. The second return value is
// false if the challenge uses an unsupported algorithm or quality of
// protection.
func (s *DigestState) Header(method string, u *url.URL) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header(method, u)
}

func (s *DigestState) header(method string, u *url.URL) (string, bool) {
	realm := s.chal["realm"]
	nonce := s.chal["nonce"]
	qop, hasQop := s.chal["qop"]
	algorithm, hasAlgorithm := s.chal["algorithm"]
	opaque := s.chal["opaque"]

	alg := "MD5"
	if hasAlgorithm {
		alg = strings.ToUpper(algorithm)
	}
	var newHash func() hash.Hash
	switch alg {
	case "MD5", "MD5-SESS":
		newHash = md5.New
	case "SHA":
		newHash = sha1.New
	default:
		return "", false
	}
	h := func(v string) string {
		x := newHash()
		x.Write([]byte(v))
		return hex.EncodeToString(x.Sum(nil))
	}
	kd := func(secret, data string) string {
		return h(secret + ":" + data)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	ha1 := h(s.d.Username + ":" + realm + ":" + s.d.Password)
	ha2 := h(method + ":" + path)

	if nonce == s.lastNonce {
		s.nonceCount++
	} else {
		s.nonceCount = 1
	}
	nc := fmt.Sprintf("%08x", s.nonceCount)
	cnonce := clientNonce(s.nonceCount, nonce)

	if alg == "MD5-SESS" {
		ha1 = h(ha1 + ":" + nonce + ":" + cnonce)
	}

	var response string
	switch {
	case !hasQop:
		response = kd(ha1, nonce+":"+ha2)
	case qop == "auth" || hasToken(qop, "auth"):
		response = kd(ha1, nonce+":"+nc+":"+cnonce+":auth:"+ha2)
	default:
		return "", false
	}

	s.lastNonce = nonce

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s"`,
		s.d.Username, realm, nonce, path, response)
	if opaque != "" {
		fmt.Fprintf(&b, `, opaque="%s"`, opaque)
	}
	if algorithm != "" {
		fmt.Fprintf(&b, `, algorithm="%s"`, algorithm)
	}
	if hasQop && qop != "" {
		fmt.Fprintf(&b, `, qop="auth", nc=%s, cnonce="%s"`, nc, cnonce)
	}
	return b.String(), true
}

func hasToken(list, token string) bool {
	for _, t := range strings.Split(list, ",") {
		if t == token {
			return true
		}
	}
	return false
}

func clientNonce(count int, nonce string) string {
	random := make([]byte, 8)
	_, _ = rand.Read(random)
	x := sha1.New()
	x.Write([]byte(strconv.Itoa(count)))
	x.Write([]byte(nonce))
	x.Write([]byte(time.Now().Format(time.ANSIC)))
	x.Write(random)
	return hex.EncodeToString(x.Sum(nil))[:16]
}
