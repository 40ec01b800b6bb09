// Package asynchttp is a small HTTP/1.1 client. Requests are encoded
// and responses decoded by a framed codec over any byte stream, pooled
// TCP or TLS connections by default.
package asynchttp

import (
	"context"
	"io"

	"github.com/frankli0324/async-http-client/internal"
	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/internal/transport"
)

type Client = internal.Client
type Header = http.Header
type Method = http.Method
type Request = http.Request
type PreparedRequest = http.PreparedRequest
type Response = http.Response

type Handler = internal.Handler
type Middleware = internal.Middleware

// Codec frames requests and responses on a single connection, see
// [NewConn] for using it over a stream.
type Codec = transport.Codec

// Conn is a framed HTTP/1.1 connection: requests are sent with
// Send and responses received with Next.
type Conn = transport.HTTP

const (
	MethodGet     = http.MethodGet
	MethodHead    = http.MethodHead
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodDelete  = http.MethodDelete
	MethodConnect = http.MethodConnect
	MethodOptions = http.MethodOptions
	MethodTrace   = http.MethodTrace
)

var (
	ErrMissingHost           = http.ErrMissingHost
	ErrNoAddress             = http.ErrNoAddress
	ErrInvalidMethod         = http.ErrInvalidMethod
	ErrInvalidHeader         = http.ErrInvalidHeader
	ErrContentLengthConflict = http.ErrContentLengthConflict
	ErrMalformedStatusLine   = transport.ErrMalformedStatusLine
	ErrUnsupportedVersion    = transport.ErrUnsupportedVersion
	ErrHeaderTooLarge        = transport.ErrHeaderTooLarge
	ErrInvalidContentLength  = transport.ErrInvalidContentLength
	ErrExtraneousData        = transport.ErrExtraneousData
	ErrNoResponse            = transport.ErrNoResponse
)

func NewRequest(method Method, rawURL string) (*Request, error) {
	return http.NewRequest(method, rawURL)
}

func Get(rawURL string) (*Request, error) { return http.Get(rawURL) }

func Post(rawURL string, body interface{}) (*Request, error) { return http.Post(rawURL, body) }

// Send writes req on rw and returns the response to it, without any
// connection management. rw is left open.
func Send(ctx context.Context, rw io.ReadWriter, req *Request) (*Response, error) {
	return transport.Send(ctx, rw, req)
}

func NewCodec() *Codec { return transport.NewCodec() }

// NewConn frames rw with a fresh [Codec]. Requests could be pipelined by
// sending several before reading the responses.
func NewConn(rw io.ReadWriter) *Conn { return transport.NewHTTP(rw) }

// RequestID and Logging are the built-in middlewares.
func RequestID(header string) Middleware { return internal.RequestID(header) }
func Logging() Middleware                { return internal.Logging() }

// Version of the module, reported by "ahc version".
const Version = "0.2.0"
