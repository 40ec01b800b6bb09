package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

var (
	ErrMissingHost = errors.New("missing host in request url")
	ErrNoAddress   = errors.New("no address")
)

var schemes = map[string]string{
	"http": "80", "https": "443", "socks": "1080",
}

// DefaultPort returns the well-known port of scheme, or "" if unknown.
func DefaultPort(scheme string) string {
	return schemes[scheme]
}

// NewRequest creates a request with the given method and URL. The URL is
// validated eagerly so that errors surface before any connection is made.
func NewRequest(method Method, rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingHost, rawURL)
	}
	return &Request{Method: method, URL: rawURL}, nil
}

func Get(rawURL string) (*Request, error) {
	return NewRequest(MethodGet, rawURL)
}

// Post creates a POST request carrying body. See [Request] for the
// supported body types.
func Post(rawURL string, body interface{}) (*Request, error) {
	r, err := NewRequest(MethodPost, rawURL)
	if err != nil {
		return nil, err
	}
	r.Body = body
	return r, nil
}

// WithHeader appends a header value and returns r for chaining.
func (r *Request) WithHeader(name, value string) *Request {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header[name] = append(r.Header[name], value)
	return r
}

// Addr resolves the address the request should be sent to, using the
// port implied by the scheme if the URL has none.
func (r *Request) Addr(ctx context.Context) (*net.TCPAddr, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}
	port := u.Port()
	if port == "" {
		port = DefaultPort(u.Scheme)
	}
	p, err := net.DefaultResolver.LookupPort(ctx, "tcp", port)
	if err != nil {
		return nil, err
	}
	ips, err := net.DefaultResolver.LookupIPAddr(ctx, u.Hostname())
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoAddress, u.Hostname())
	}
	return &net.TCPAddr{IP: ips[0].IP, Port: p, Zone: ips[0].Zone}, nil
}
