// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"encoding/base64"

	"github.com/gogama/reqx/request"
)

// Basic attaches HTTP Basic credentials in the Authorization header.
type Basic struct {
	Username string
	Password string
}

// Authorize implements request.Authorizer.
func (b Basic) Authorize(p *request.Prepared) error {
	p.Header.Set("Authorization", BasicHeader(b.Username, b.Password))
	return nil
}

// ProxyBasic attaches HTTP Basic credentials in the Proxy-Authorization
// header.
type ProxyBasic struct {
	Username string
	Password string
}

// Authorize implements request.Authorizer.
func (b ProxyBasic) Authorize(p *request.Prepared) error {
	p.Header.Set("Proxy-Authorization", BasicHeader(b.Username, b.Password))
	return nil
}

// BasicHeader returns the value of a Basic authorization header.
func BasicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
