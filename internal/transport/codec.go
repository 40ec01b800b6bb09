package transport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	ihttp "github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/internal/transport/chunked"
)

var (
	ErrMalformedStatusLine  = errors.New("malformed HTTP status line")
	ErrUnsupportedVersion   = errors.New("unsupported HTTP version")
	ErrHeaderTooLarge       = errors.New("response header too large")
	ErrInvalidContentLength = errors.New("invalid Content-Length")
	ErrExtraneousData       = errors.New("extraneous data")
)

const DefaultMaxHeaderBytes = 1 << 20

type decodeState int

const (
	stateHead decodeState = iota
	stateLength
	stateChunked
	stateUntilClose
)

// Codec encodes HTTP/1.1 requests and decodes the responses to them.
//
// A Codec is bound to a single connection: methods of encoded requests
// are queued so that responses to HEAD and CONNECT are framed correctly.
type Codec struct {
	MaxHeaderBytes int

	pending []ihttp.Method

	state  decodeState
	resp   *ihttp.Response
	left   int64
	chunks *chunked.Decoder
}

func NewCodec() *Codec {
	return &Codec{MaxHeaderBytes: DefaultMaxHeaderBytes}
}

// Encode writes the request line, headers and the body of r.
func (c *Codec) Encode(w *bufio.Writer, r *ihttp.PreparedRequest) error {
	body, err := r.GetBody() // can write body
	if err != nil {
		return err
	}
	if body != nil {
		defer body.Close() // request body is ALWAYS closed
	}
	hasBody := body != nil && body != http.NoBody
	chunkedBody := hasBody && r.ContentLength == -1

	c.writeHeader(w, r, chunkedBody)
	switch {
	case chunkedBody:
		cw := chunked.NewWriter(w)
		if _, err := io.Copy(cw, body); err != nil {
			return err
		}
		if err := cw.Close(); err != nil {
			return err
		}
	case hasBody:
		n, err := io.CopyN(w, body, r.ContentLength)
		if err != nil {
			return fmt.Errorf("writing request body (%d of %d bytes): %w", n, r.ContentLength, err)
		}
	}
	c.pending = append(c.pending, r.Method)
	return nil
}

// writeHeader writes the request line and header part of an http 1.1 request
// e.g.:
//
//	GET / HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	\r\n
//
// errors are left sticky in w and surface on flush.
func (c *Codec) writeHeader(w *bufio.Writer, r *ihttp.PreparedRequest, chunkedBody bool) {
	w.WriteString(r.Method.String())
	w.WriteByte(' ')
	w.WriteString(r.RequestURI())
	w.WriteString(" HTTP/1.1\r\n")

	w.WriteString("Host: ")
	w.WriteString(r.HeaderHost)
	w.WriteString("\r\n")
	if chunkedBody {
		w.WriteString("Transfer-Encoding: chunked\r\n")
	} else if r.ContentLength != -1 {
		w.WriteString("Content-Length: ")
		w.WriteString(strconv.FormatInt(r.ContentLength, 10))
		w.WriteString("\r\n")
	}
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			w.WriteString(k)
			w.WriteString(": ")
			w.WriteString(v)
			w.WriteString("\r\n")
		}
	}
	w.WriteString("\r\n")
}

// Decode implements [Decoder]. Bytes of the message being decoded are
// consumed from buf even when the message is not yet complete.
func (c *Codec) Decode(buf *bytes.Buffer) (*ihttp.Response, bool, error) {
	for {
		switch c.state {
		case stateHead:
			resp, err := c.decodeHead(buf)
			if err != nil || resp == nil {
				return nil, false, err
			}
			if c.state == stateHead { // no body
				return c.complete(buf)
			}
		case stateLength:
			n := int64(buf.Len())
			if n > c.left {
				n = c.left
			}
			c.resp.Append(buf.Next(int(n)))
			if c.left -= n; c.left > 0 {
				return nil, false, nil
			}
			return c.complete(buf)
		case stateChunked:
			done, err := c.chunks.Decode(buf, c.resp.Append)
			if err != nil || !done {
				return nil, false, err
			}
			return c.complete(buf)
		case stateUntilClose:
			c.resp.Append(buf.Next(buf.Len()))
			return nil, false, nil
		}
	}
}

// DecodeEOF implements [Decoder]. It completes a body delimited by
// connection close, any other partial message is unexpected.
func (c *Codec) DecodeEOF(buf *bytes.Buffer) (*ihttp.Response, bool, error) {
	resp, ok, err := c.Decode(buf)
	if err != nil || ok {
		return resp, ok, err
	}
	switch {
	case c.state == stateUntilClose:
		return c.complete(buf)
	case c.state == stateHead && buf.Len() == 0:
		return nil, false, nil
	}
	return nil, false, io.ErrUnexpectedEOF
}

func (c *Codec) decodeHead(buf *bytes.Buffer) (*ihttp.Response, error) {
	max := c.MaxHeaderBytes
	if max <= 0 {
		max = DefaultMaxHeaderBytes
	}
	end := headerEnd(buf.Bytes())
	if end < 0 {
		if buf.Len() > max {
			return nil, ErrHeaderTooLarge
		}
		return nil, nil // not enough data
	}
	if end > max {
		return nil, ErrHeaderTooLarge
	}

	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(buf.Next(end))))
	line, err := tp.ReadLine()
	if err != nil {
		return nil, err
	}
	resp, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}
	mimeHeader, err := tp.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return nil, err
	}
	resp.Header = http.Header(mimeHeader)
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	resp.Close = shouldClose(resp)
	c.resp = resp
	return resp, c.frameBody(resp)
}

// frameBody decides how the body of resp is delimited, RFC 9112 section 6.3
func (c *Codec) frameBody(resp *ihttp.Response) error {
	var method ihttp.Method
	if len(c.pending) > 0 {
		method = c.pending[0]
	}
	code := resp.StatusCode
	switch {
	case resp.IsInformational(), code == http.StatusNoContent, code == http.StatusNotModified,
		method == ihttp.MethodHead, method == ihttp.MethodConnect && resp.IsSuccessful():
		if code == http.StatusSwitchingProtocols || method == ihttp.MethodConnect {
			resp.Close = true // connection is taken over
		}
		resp.ContentLength = 0
		return nil
	case isChunked(resp.Header["Transfer-Encoding"]):
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		c.state, c.chunks = stateChunked, chunked.NewDecoder()
		return nil
	case len(resp.Header["Transfer-Encoding"]) > 0:
		resp.ContentLength = -1
		resp.Close = true
		c.state = stateUntilClose
		return nil
	}

	contentLens := resp.Header["Content-Length"]
	if len(contentLens) == 0 {
		resp.ContentLength = -1
		resp.Close = true
		c.state = stateUntilClose
		return nil
	}
	// Hardening against HTTP request smuggling, taken from standard library
	first := textproto.TrimString(contentLens[0])
	for _, ct := range contentLens[1:] {
		if first != textproto.TrimString(ct) {
			return fmt.Errorf("%w: message cannot contain multiple Content-Length headers; got %q", ErrInvalidContentLength, contentLens)
		}
	}
	if len(contentLens) > 1 {
		resp.Header["Content-Length"] = []string{first}
	}
	n, err := strconv.ParseUint(first, 10, 63)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidContentLength, first)
	}
	resp.ContentLength = int64(n)
	if n > 0 {
		c.state, c.left = stateLength, int64(n)
	}
	return nil
}

func (c *Codec) complete(buf *bytes.Buffer) (*ihttp.Response, bool, error) {
	resp := c.resp
	c.resp, c.state, c.chunks, c.left = nil, stateHead, nil, 0
	if resp.IsInformational() && resp.StatusCode != http.StatusSwitchingProtocols {
		return resp, true, nil // the final response is still to come
	}
	var method ihttp.Method
	if len(c.pending) > 0 {
		method, c.pending = c.pending[0], c.pending[1:]
	}
	// bytes following a protocol switch belong to the new protocol
	upgraded := resp.StatusCode == http.StatusSwitchingProtocols ||
		method == ihttp.MethodConnect && resp.IsSuccessful()
	if buf.Len() > 0 && len(c.pending) == 0 && !upgraded {
		return nil, false, ErrExtraneousData
	}
	return resp, true, nil
}

// parseStatusLine parses e.g. "HTTP/1.1 404 Not Found". The reason
// phrase is optional.
func parseStatusLine(line string) (*ihttp.Response, error) {
	proto, status, ok := strings.Cut(line, " ")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}
	major, minor, ok := parseHTTPVersion(proto)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}
	if major != 1 || minor > 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, proto)
	}
	status = strings.TrimLeft(status, " ")
	code, _, _ := strings.Cut(status, " ")
	if len(code) != 3 || !isDigits(code) {
		return nil, fmt.Errorf("%w: status code %q", ErrMalformedStatusLine, code)
	}
	statusCode, _ := strconv.Atoi(code)
	return &ihttp.Response{
		Proto:      proto,
		ProtoMajor: major,
		ProtoMinor: minor,
		Status:     strings.TrimRight(status, " "),
		StatusCode: statusCode,
	}, nil
}

// parseHTTPVersion accepts "HTTP/<digit>.<digit>"
func parseHTTPVersion(v string) (major, minor int, ok bool) {
	if len(v) != len("HTTP/1.1") || !strings.HasPrefix(v, "HTTP/") || v[6] != '.' {
		return 0, 0, false
	}
	if !isDigits(v[5:6]) || !isDigits(v[7:8]) {
		return 0, 0, false
	}
	return int(v[5] - '0'), int(v[7] - '0'), true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
