package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

var (
	ErrInvalidMethod = errors.New("invalid request method")
	ErrInvalidHeader = errors.New("invalid request header")

	ErrContentLengthConflict = errors.New("conflicting value between body size and content-length request header")
)

// PreparedRequest is the validated, wire ready form of a [Request].
type PreparedRequest struct {
	*Request

	U          *url.URL
	GetBody    func() (io.ReadCloser, error)
	Header     http.Header // without Host and Content-Length
	HeaderHost string

	ContentLength int64 // -1 when unknown
}

// Prepare validates r and computes its wire form. r itself is left
// untouched, an empty method becomes GET on the prepared copy only.
func (r *Request) Prepare() (*PreparedRequest, error) {
	if r.Method == "" {
		defaulted := *r
		defaulted.Method = MethodGet
		r = &defaulted
	}
	if !r.Method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, r.Method)
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}

	headers := r.Header.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	host, err := asciiHost(u.Host)
	if err != nil {
		return nil, err
	}
	cl := int64(-1)
	// user defined headers has higher priority
	for k, v := range headers {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("%w name: %q", ErrInvalidHeader, k)
		}
		for _, vv := range v {
			if !httpguts.ValidHeaderFieldValue(vv) {
				return nil, fmt.Errorf("%w value for %s: %q", ErrInvalidHeader, k, vv)
			}
		}
		switch strings.ToLower(k) {
		case "host":
			if len(v) != 0 && httpguts.ValidHostHeader(v[0]) {
				host = v[0]
			}
			delete(headers, k)
		case "content-length":
			if len(v) != 0 {
				if v, err := strconv.ParseInt(v[0], 10, 64); err == nil && v >= 0 {
					cl = v
				}
			}
			delete(headers, k)
		case "transfer-encoding":
			// framing is decided from the body
			delete(headers, k)
		}
	}
	if host == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingHost, r.URL)
	}

	pr := &PreparedRequest{
		Request: r, U: u,
		Header: headers, HeaderHost: host,
		ContentLength: cl,
	}
	if err := pr.updateBody(); err != nil {
		// note that updateBody potentially updates content-length
		return nil, err
	}
	if cl != -1 && pr.ContentLength != cl {
		return nil, fmt.Errorf("%w: body has %d bytes, header says %d", ErrContentLengthConflict, pr.ContentLength, cl)
	}
	return pr, nil
}

// RequestURI returns the request-target put on the request line. The
// fragment is never sent, CONNECT requests use the authority form.
func (r *PreparedRequest) RequestURI() string {
	if r.Method == MethodConnect {
		return r.HostPort()
	}
	return r.U.RequestURI()
}

// HostPort returns host:port of the target, with the port implied
// by the scheme when absent.
func (r *PreparedRequest) HostPort() string {
	port := r.U.Port()
	if port == "" {
		port = DefaultPort(r.U.Scheme)
	}
	return net.JoinHostPort(r.U.Hostname(), port)
}

func asciiHost(hostport string) (string, error) {
	if hostport == "" {
		return "", nil
	}
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = hostport, ""
	}
	if isASCII(host) {
		return hostport, nil
	}
	host, err = idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", hostport, err)
	}
	if port != "" {
		return net.JoinHostPort(host, port), nil
	}
	return host, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// should only be called once at [Prepare]
func (r *PreparedRequest) updateBody() (err error) {
	if r.Request.Body == nil {
		if r.ContentLength > 0 {
			return fmt.Errorf("%w: no body, header says %d", ErrContentLengthConflict, r.ContentLength)
		}
		if r.ContentLength == -1 && r.Method.expectsBody() {
			r.ContentLength = 0
		}
		r.GetBody = func() (io.ReadCloser, error) {
			return http.NoBody, nil
		}
		return nil
	}
	switch b := r.Request.Body.(type) {
	case string:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(b)), nil
		}
	case []byte:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	case *bytes.Buffer: // below is taken from http.NewRequest
		r.ContentLength = int64(b.Len())
		buf := b.Bytes()
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case io.Reader:
		if sizer, ok := b.(interface{ Size() int64 }); ok {
			r.ContentLength = sizer.Size()
		}
		cb, ok := b.(io.ReadCloser)
		if !ok {
			cb = io.NopCloser(b)
		}
		var once atomic.Bool
		r.GetBody = func() (io.ReadCloser, error) {
			if once.CompareAndSwap(false, true) {
				return cb, nil
			}
			return nil, http.ErrBodyReadAfterClose
		}
	default:
		return fmt.Errorf("unsupported body type: %T", r.Request.Body)
	}
	return nil
}
