// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"strconv"
)

const badBodyTypeMsg = "reqx/request: invalid type (for body use nil, " +
	"string, []byte or io.Reader)"

// ErrUnrewindableBody is returned by Body.Rewind when a streaming body
// cannot be moved back to its recorded position.
var ErrUnrewindableBody = errors.New("reqx/request: unable to rewind request body for redirect or retry")

// unknownPosition records that the read position of a stream could not
// be determined at preparation time.
const unknownPosition = -1

// A Body is the encoded body of a prepared request.
//
// In-memory bodies (from string or []byte) are re-read from the start
// on every send. Streaming bodies (any io.Reader) are read in place; if
// the reader is also an io.Seeker, the read offset at preparation time
// is recorded so the body can be replayed with Rewind.
type Body struct {
	data   []byte
	stream io.Reader
	pos    int64
	length int64
}

// NewBody encodes v as a request body. A nil v, or an empty string or
// []byte, yields a nil Body.
func NewBody(v interface{}) (*Body, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Body:
		return x, nil
	case string:
		if x == "" {
			return nil, nil
		}
		return &Body{data: []byte(x), length: int64(len(x))}, nil
	case []byte:
		if len(x) == 0 {
			return nil, nil
		}
		return &Body{data: x, length: int64(len(x))}, nil
	case io.Reader:
		return newStreamBody(x), nil
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

func newStreamBody(r io.Reader) *Body {
	b := &Body{stream: r, pos: unknownPosition, length: -1}
	s, ok := r.(io.Seeker)
	if !ok {
		return b
	}
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return b
	}
	b.pos = pos
	if end, err := s.Seek(0, io.SeekEnd); err == nil {
		if _, err = s.Seek(pos, io.SeekStart); err == nil {
			b.length = end - pos
		} else {
			b.pos = unknownPosition
		}
	}
	return b
}

// IsStream reports whether the body is read from a caller-supplied
// stream rather than from memory.
func (b *Body) IsStream() bool {
	return b != nil && b.stream != nil
}

// Len returns the body length in bytes, or -1 if it is unknown (a
// non-seekable stream, which will be sent with chunked encoding).
func (b *Body) Len() int64 {
	if b == nil {
		return 0
	}
	return b.length
}

// Position returns the stream read offset recorded when the body was
// prepared. The second return value is false if the body is not a
// stream or the offset could not be determined.
func (b *Body) Position() (int64, bool) {
	if !b.IsStream() || b.pos == unknownPosition {
		return 0, false
	}
	return b.pos, true
}

// Bytes returns the content of an in-memory body, or nil for a stream.
func (b *Body) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Reader returns a reader over the body content for one send.
func (b *Body) Reader() io.ReadCloser {
	if b == nil {
		return nil
	}
	if b.stream != nil {
		return io.NopCloser(b.stream)
	}
	return io.NopCloser(bytes.NewReader(b.data))
}

// Rewind moves a streaming body back to its recorded position. It is a
// no-op for in-memory bodies. ErrUnrewindableBody is returned if the
// stream's position is unknown or seeking fails.
func (b *Body) Rewind() error {
	if !b.IsStream() {
		return nil
	}
	s, ok := b.stream.(io.Seeker)
	if !ok || b.pos == unknownPosition {
		return ErrUnrewindableBody
	}
	if _, err := s.Seek(b.pos, io.SeekStart); err != nil {
		return ErrUnrewindableBody
	}
	return nil
}

// String describes the body for diagnostics without reading it.
func (b *Body) String() string {
	switch {
	case b == nil:
		return "<empty>"
	case b.stream != nil:
		return "<stream>"
	default:
		return "<" + strconv.FormatInt(b.length, 10) + " bytes>"
	}
}
