package http

import (
	"net/http"
)

// Request is the user facing request description. Header names are sent
// as is, without being canonicalized.
//
// Body could be one of string, []byte, *bytes.Buffer, *bytes.Reader,
// *strings.Reader or any io.Reader. Readers with unknown size would be
// sent with chunked transfer encoding.
type Request struct {
	Method Method
	URL    string
	Body   interface{}
	Header http.Header
}

// Response is a fully decoded response message. The body is buffered
// as a whole by the decoder.
type Response struct {
	Proto      string // e.g. "HTTP/1.1"
	ProtoMajor int
	ProtoMinor int
	Status     string // e.g. "200 OK"
	StatusCode int
	Header     http.Header

	// ContentLength is -1 when the body is chunked or delimited by
	// connection close.
	ContentLength int64
	Body          []byte

	// Close records that the connection could not be reused after
	// this response.
	Close bool
}
