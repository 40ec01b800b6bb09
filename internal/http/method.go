package http

import "golang.org/x/net/http/httpguts"

// Method is the request method token. Methods outside of the
// predefined ones are allowed as long as they are valid tokens.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

func (m Method) String() string { return string(m) }

// Valid reports whether m could be put on the request line as is.
func (m Method) Valid() bool {
	if m == "" {
		return false
	}
	for _, r := range m {
		if !httpguts.IsTokenRune(r) {
			return false
		}
	}
	return true
}

// expectsBody reports whether an empty body should still be announced
// with "Content-Length: 0".
func (m Method) expectsBody() bool {
	return m == MethodPost || m == MethodPut || m == "PATCH"
}
