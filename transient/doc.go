// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies raw transport faults produced while
// sending an HTTP request. The adapter package uses the categories to
// translate faults into the reqerr taxonomy, and they are handy for
// other purposes such as bucketing error metrics.
//
// Package transient depends only on the standard library.
package transient
