package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"time"
)

const readSize = 4096

var aLongTimeAgo = time.Unix(1, 0)

// Framed turns a byte stream into a sink of I and a stream of O, using
// enc and dec to convert between items and bytes.
type Framed[I, O any] struct {
	rw  io.ReadWriter
	enc Encoder[I]
	dec Decoder[O]

	w       *bufio.Writer
	buf     bytes.Buffer
	scratch []byte
	eof     bool
}

func NewFramed[I, O any](rw io.ReadWriter, enc Encoder[I], dec Decoder[O]) *Framed[I, O] {
	return &Framed[I, O]{
		rw: rw, enc: enc, dec: dec,
		w:       bufio.NewWriter(rw),
		scratch: make([]byte, readSize),
	}
}

// Send encodes item and flushes it to the underlying stream.
func (f *Framed[I, O]) Send(ctx context.Context, item I) (err error) {
	defer watch(ctx, f.rw)(&err)
	if err := f.enc.Encode(f.w, item); err != nil {
		return err
	}
	return f.w.Flush()
}

// Next returns the next decoded item. [io.EOF] is returned when the
// stream ends cleanly between two items.
func (f *Framed[I, O]) Next(ctx context.Context) (item O, err error) {
	defer watch(ctx, f.rw)(&err)
	for {
		if !f.eof {
			if item, ok, err := f.dec.Decode(&f.buf); err != nil || ok {
				return item, err
			}
			n, rerr := f.rw.Read(f.scratch)
			f.buf.Write(f.scratch[:n])
			if rerr == nil {
				continue
			}
			if rerr != io.EOF {
				return item, rerr
			}
			f.eof = true
		}
		item, ok, err := f.dec.DecodeEOF(&f.buf)
		if err != nil || ok {
			return item, err
		}
		return item, io.EOF
	}
}

// Buffered returns the bytes read from the stream but not consumed by
// the decoder, e.g. those following a protocol switch.
func (f *Framed[I, O]) Buffered() []byte {
	return f.buf.Bytes()
}

// Into returns the underlying stream.
func (f *Framed[I, O]) Into() io.ReadWriter {
	return f.rw
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// watch makes blocking i/o on rw honor ctx when rw supports deadlines,
// by expiring the deadline once ctx is done.
// The returned func must be deferred, it disarms the deadline and reports
// the ctx error in place of the i/o error caused by it.
func watch(ctx context.Context, rw io.ReadWriter) func(*error) {
	var d deadliner
	if raw := getRawConn(rw); raw != nil {
		d = raw
	} else if dl, ok := rw.(deadliner); ok {
		d = dl
	}
	if d == nil || ctx.Done() == nil {
		return func(*error) {}
	}
	expired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		d.SetDeadline(aLongTimeAgo)
		close(expired)
	})
	return func(err *error) {
		if !stop() {
			// the deadline is being expired, it must not land after the reset
			<-expired
		}
		d.SetDeadline(time.Time{})
		if *err != nil && ctx.Err() != nil {
			*err = ctx.Err()
		}
	}
}
