// Package console implements the console device over byte streams: a raw
// TCP console server or a local shell in a pseudo-terminal.
package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sandevgo/simdrive/pkg/log"
)

const readChunk = 4096

var (
	ErrClosed       = errors.New("console closed")
	ErrRecording    = errors.New("console is already recording")
	ErrNotRecording = errors.New("console is not recording")
)

// Stream is a console over a reader/writer pair. Output is read only while
// waiting for a pattern; there is no background reader.
type Stream struct {
	r io.Reader
	w io.Writer
	c io.Closer

	mirror io.Writer

	// pending holds output received but not yet consumed by a match.
	pending []byte
	rec     *bytes.Buffer

	closeOnce sync.Once
	closeErr  error
}

type Option func(*Stream)

// WithMirror copies everything read from the console to w.
func WithMirror(w io.Writer) Option {
	return func(s *Stream) {
		s.mirror = w
	}
}

// WithCloser sets what Close releases. Defaults to rw when it is an io.Closer.
func WithCloser(c io.Closer) Option {
	return func(s *Stream) {
		s.c = c
	}
}

func NewStream(rw io.ReadWriter, opts ...Option) *Stream {
	return NewStreamPair(rw, rw, opts...)
}

func NewStreamPair(r io.Reader, w io.Writer, opts ...Option) *Stream {
	s := &Stream{r: r, w: w}
	if c, ok := r.(io.Closer); ok {
		s.c = c
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stream) Input(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.FromCtx(ctx).Trace().Str("text", text).Msg("console input")

	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	return nil
}

// WaitFor reads console output until pattern shows up. It has no timeout;
// cancelling ctx closes the stream so that a blocked read returns.
func (s *Stream) WaitFor(ctx context.Context, pattern string) error {
	if pattern == "" {
		return errors.New("wait for empty pattern")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	needle := []byte(pattern)
	buf := make([]byte, readChunk)
	for {
		if i := bytes.Index(s.pending, needle); i >= 0 {
			s.pending = append(s.pending[:0], s.pending[i+len(needle):]...)
			return nil
		}
		// Only a pattern prefix can still complete a match.
		if keep := len(needle) - 1; len(s.pending) > keep {
			s.pending = append(s.pending[:0], s.pending[len(s.pending)-keep:]...)
		}

		n, err := s.r.Read(buf)
		if n > 0 {
			s.received(buf[:n])
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w while waiting for %q", ErrClosed, pattern)
			}
			return fmt.Errorf("read console: %w", err)
		}
	}
}

func (s *Stream) received(p []byte) {
	s.pending = append(s.pending, p...)
	if s.rec != nil {
		s.rec.Write(p)
	}
	if s.mirror != nil {
		_, _ = s.mirror.Write(p)
	}
}

// RecordStart begins capturing output received from now on. Output already
// buffered by an earlier read is not part of the recording.
func (s *Stream) RecordStart(ctx context.Context) error {
	if s.rec != nil {
		return ErrRecording
	}
	s.rec = &bytes.Buffer{}
	return nil
}

func (s *Stream) RecordStop(ctx context.Context) (string, error) {
	if s.rec == nil {
		return "", ErrNotRecording
	}
	out := s.rec.String()
	s.rec = nil
	return out, nil
}

// Close releases the underlying connection. Safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		if s.c != nil {
			s.closeErr = s.c.Close()
		}
	})
	return s.closeErr
}
