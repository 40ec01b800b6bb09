package http_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankli0324/async-http-client/internal/http"
)

func TestResponseHeaderLookup(t *testing.T) {
	resp := &http.Response{Header: http.Header{
		"Connection": {"Close"},
		"x-raw":      {"1"},
	}}
	v, ok := resp.Get("connection")
	assert.True(t, ok)
	assert.Equal(t, "Close", v)

	assert.True(t, resp.Has("CONNECTION", "close"))
	assert.False(t, resp.Has("Connection", "keep-alive"))
	assert.True(t, resp.Has("X-Raw", "1"), "non canonical keys are still found")
	_, ok = resp.Get("Missing")
	assert.False(t, ok)
}

func TestResponseClasses(t *testing.T) {
	check := func(code int, want [5]bool) {
		r := &http.Response{StatusCode: code}
		got := [5]bool{r.IsInformational(), r.IsSuccessful(), r.IsRedirection(), r.IsClientError(), r.IsServerError()}
		assert.Equal(t, want, got, "status %d", code)
	}
	check(100, [5]bool{true})
	check(204, [5]bool{false, true})
	check(304, [5]bool{false, false, true})
	check(404, [5]bool{false, false, false, true})
	check(503, [5]bool{false, false, false, false, true})
	check(600, [5]bool{})
}

func TestResponseString(t *testing.T) {
	resp := &http.Response{
		ProtoMajor: 1, ProtoMinor: 1, StatusCode: 200,
		Header: http.Header{"Content-Length": {"13"}, "Connection": {"close"}},
	}
	resp.Append([]byte("hello, "))
	resp.Append([]byte("world!"))
	assert.Equal(t, "HTTP/1.1 200\nConnection: close\nContent-Length: 13\nbody: 13 bytes = [hello, world!...]\n", resp.String())

	resp.Body = []byte(strings.Repeat("a", 40))
	assert.Contains(t, resp.String(), "body: 40 bytes = ["+strings.Repeat("a", 30)+"...]")
}
