package transport

import (
	"context"
	"errors"
	"io"

	"github.com/frankli0324/async-http-client/internal/http"
)

var ErrNoResponse = errors.New("connection closed without response")

// HTTP is a framed HTTP/1.1 client connection.
type HTTP = Framed[*http.PreparedRequest, *http.Response]

// NewHTTP frames rw with a fresh [Codec].
func NewHTTP(rw io.ReadWriter) *HTTP {
	c := NewCodec()
	return NewFramed[*http.PreparedRequest, *http.Response](rw, c, c)
}

// Send writes req on rw and waits for the final response to it. rw is
// left open and could be reused if the response allows.
func Send(ctx context.Context, rw io.ReadWriter, req *http.Request) (*http.Response, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	return RoundTrip(ctx, rw, pr)
}

// RoundTrip is [Send] for an already prepared request. Interim 1xx
// responses are skipped.
func RoundTrip(ctx context.Context, rw io.ReadWriter, pr *http.PreparedRequest) (*http.Response, error) {
	framed := NewHTTP(rw)
	if err := framed.Send(ctx, pr); err != nil {
		return nil, err
	}
	for {
		resp, err := framed.Next(ctx)
		if err == io.EOF {
			return nil, ErrNoResponse
		}
		if err != nil {
			return nil, err
		}
		if resp.IsInformational() && resp.StatusCode != 101 {
			continue
		}
		return resp, nil
	}
}
