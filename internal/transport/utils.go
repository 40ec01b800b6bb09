package transport

import (
	"net"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/async-http-client/internal/http"
)

// headerEnd returns the offset right after the blank line terminating
// the header section in b, or -1 if it's not there yet. Bare LF line
// endings are tolerated.
func headerEnd(b []byte) int {
	for i := 0; i < len(b); i++ {
		if b[i] != '\n' {
			continue
		}
		if i+1 < len(b) && b[i+1] == '\n' {
			return i + 2
		}
		if i+2 < len(b) && b[i+1] == '\r' && b[i+2] == '\n' {
			return i + 3
		}
	}
	return -1
}

// isChunked reports whether chunked is the final transfer coding.
func isChunked(te []string) bool {
	if len(te) == 0 {
		return false
	}
	codings := strings.Split(strings.Join(te, ","), ",")
	return strings.EqualFold(strings.TrimSpace(codings[len(codings)-1]), "chunked")
}

func shouldClose(resp *http.Response) bool {
	conn := resp.Header["Connection"]
	if httpguts.HeaderValuesContainsToken(conn, "close") {
		return true
	}
	if resp.ProtoMajor == 1 && resp.ProtoMinor == 0 {
		return !httpguts.HeaderValuesContainsToken(conn, "keep-alive")
	}
	return false
}

func getRawConn(c interface{}) net.Conn {
	if conn, ok := c.(interface{ Raw() net.Conn }); ok {
		return conn.Raw()
	}
	if conn, ok := c.(net.Conn); ok {
		return conn
	}
	return nil
}
