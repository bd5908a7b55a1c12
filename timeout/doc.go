// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines the per-call timeout value understood by the
// adapter package. A timeout has a connect phase and a read phase,
// which may be set together with Fixed or separately with Split.
package timeout
