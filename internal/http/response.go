package http

import (
	"fmt"
	"net/textproto"
	"sort"
	"strings"
)

const bodyPreviewSize = 30

// Get returns the first value of the named header. Names are compared
// case-insensitively.
func (r *Response) Get(name string) (string, bool) {
	if v := r.Header[textproto.CanonicalMIMEHeaderKey(name)]; len(v) > 0 {
		return v[0], true
	}
	for k, v := range r.Header {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// Has reports whether the named header is present with the expected
// value. Both name and value are compared case-insensitively.
func (r *Response) Has(name, expected string) bool {
	v, ok := r.Get(name)
	return ok && strings.EqualFold(strings.TrimSpace(v), expected)
}

func (r *Response) IsInformational() bool { return r.StatusCode >= 100 && r.StatusCode < 200 }
func (r *Response) IsSuccessful() bool    { return r.StatusCode >= 200 && r.StatusCode < 300 }
func (r *Response) IsRedirection() bool   { return r.StatusCode >= 300 && r.StatusCode < 400 }
func (r *Response) IsClientError() bool   { return r.StatusCode >= 400 && r.StatusCode < 500 }
func (r *Response) IsServerError() bool   { return r.StatusCode >= 500 && r.StatusCode < 600 }

// Append appends p to the response body.
func (r *Response) Append(p []byte) {
	r.Body = append(r.Body, p...)
}

// String renders the status, the headers sorted by name and a short
// preview of the body, e.g.:
//
//	HTTP/1.1 200
//	Content-Length: 13
//	body: 13 bytes = [hello, world!...]
func (r *Response) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/%d.%d %d\n", r.ProtoMajor, r.ProtoMinor, r.StatusCode)
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	preview := r.Body
	if len(preview) > bodyPreviewSize {
		preview = preview[:bodyPreviewSize]
	}
	fmt.Fprintf(&b, "body: %d bytes = [", len(r.Body))
	for _, c := range preview {
		b.WriteRune(rune(c))
	}
	b.WriteString("...]\n")
	return b.String()
}
