// Package ippbody provides the streaming adapters C2 needs to read an
// incoming IPP document body without buffering it whole, and to build a
// response body that concatenates a small header blob with a lazily-read
// payload stream.
package ippbody

import (
	"context"
	"io"
)

// ChunkSource yields the next chunk of a request body. It generalizes the
// single assumption every streaming HTTP body makes: the next read may
// block, and each call hands back an owned slice rather than filling a
// caller buffer. io.EOF, or an empty chunk with a nil error, means end of
// stream.
type ChunkSource interface {
	NextChunk(ctx context.Context) (chunk []byte, err error)
}

// ReaderChunkSource adapts any io.Reader into a ChunkSource, so BodyReader
// can sit in front of an ordinary http.Request.Body as easily as in front
// of a source that only ever hands over whole frames at a time.
type ReaderChunkSource struct {
	R   io.Reader
	buf []byte
}

func NewReaderChunkSource(r io.Reader) *ReaderChunkSource {
	return &ReaderChunkSource{R: r, buf: make([]byte, 32*1024)}
}

func (s *ReaderChunkSource) NextChunk(ctx context.Context) ([]byte, error) {
	n, err := s.R.Read(s.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])
		if err != nil && err != io.EOF {
			return chunk, err
		}
		return chunk, nil
	}
	if err == io.EOF {
		return nil, io.EOF
	}
	return nil, err
}

type bodyReaderState int

const (
	stateIdle bodyReaderState = iota
	stateHaveChunk
	stateEOF
)

// BodyReader is an explicit state machine over a ChunkSource, exposed as a
// plain io.Reader so it drops into anything expecting one (an
// ipp.Parse(r) call, an http.Response.Body, a bufio.Reader). It holds at
// most one undelivered chunk at a time between Read calls, the same shape
// as a Pin<Box<dyn AsyncRead>> state machine that stashes a leftover
// buffer between polls.
type BodyReader struct {
	ctx        context.Context
	source     ChunkSource
	state      bodyReaderState
	chunk      []byte
	offset     int
	sourceDone bool
}

func NewBodyReader(ctx context.Context, source ChunkSource) *BodyReader {
	return &BodyReader{ctx: ctx, source: source, state: stateIdle}
}

func (r *BodyReader) Read(dst []byte) (int, error) {
	if r.state == stateHaveChunk {
		return r.drain(dst), nil
	}
	if r.state == stateEOF {
		return 0, io.EOF
	}

	chunk, err := r.source.NextChunk(r.ctx)
	if err == io.EOF {
		r.sourceDone = true
	} else if err != nil {
		return 0, err
	}
	if len(chunk) == 0 {
		r.state = stateEOF
		return 0, io.EOF
	}
	r.chunk = chunk
	r.offset = 0
	r.state = stateHaveChunk
	return r.drain(dst), nil
}

// drain copies as much of the stashed chunk into dst as fits, transitioning
// back to stateIdle once the chunk is fully consumed.
func (r *BodyReader) drain(dst []byte) int {
	n := copy(dst, r.chunk[r.offset:])
	r.offset += n
	if r.offset >= len(r.chunk) {
		r.chunk = nil
		r.offset = 0
		if r.sourceDone {
			r.state = stateEOF
		} else {
			r.state = stateIdle
		}
	}
	return n
}
