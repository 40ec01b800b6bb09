package transport

import (
	"bufio"
	"bytes"
)

// Encoder writes items of type I onto a buffered stream. The caller
// flushes.
type Encoder[I any] interface {
	Encode(w *bufio.Writer, item I) error
}

// Decoder extracts items of type O from an accumulating buffer.
//
// Decode consumes a complete item from buf if there is one, ok is false
// when more bytes are needed. DecodeEOF is called instead once the
// underlying stream is exhausted; a (zero, false, nil) return from it
// means the stream ended cleanly between two items.
type Decoder[O any] interface {
	Decode(buf *bytes.Buffer) (item O, ok bool, err error)
	DecodeEOF(buf *bytes.Buffer) (item O, ok bool, err error)
}
