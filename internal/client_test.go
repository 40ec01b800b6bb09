package internal_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"log/slog"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/async-http-client/internal"
	"github.com/frankli0324/async-http-client/internal/ctxlog"
	"github.com/frankli0324/async-http-client/internal/dialer"
	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/internal/stubserver"
)

type tCase struct {
	data []byte
	req  *http.Request
}

var reqShouldBe = map[string]tCase{
	"BasicRequest": {
		req: &http.Request{
			Method: "GET",
			URL:    "http://www.example.com",
		},
		data: []byte("GET / HTTP/1.1\r\nHost: www.example.com\r\n\r\n"),
	},
	"HeaderNotCanonicalized": {
		req: &http.Request{
			Method: "GET",
			URL:    "http://www.example.com/",
			Header: http.Header{"x-123-vv": {"1"}},
		},
		data: []byte("GET / HTTP/1.1\r\nHost: www.example.com\r\nx-123-vv: 1\r\n\r\n"),
	},
	"URIFragmentNotIncluded": {
		req: &http.Request{
			Method: "GET",
			URL:    "http://www.example.com/?test=1#frag",
		},
		data: []byte("GET /?test=1 HTTP/1.1\r\nHost: www.example.com\r\n\r\n"),
	},
	"PostTest": {
		req: &http.Request{
			Method: "POST",
			URL:    "http://localhost:3000/post-test",
			Body:   "abcd",
		},
		data: []byte("POST /post-test HTTP/1.1\r\nHost: localhost:3000\r\nContent-Length: 4\r\n\r\nabcd"),
	},
}

func TestRequestSerialize(t *testing.T) {
	for name, cas := range reqShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			req := SendSingleRequest(t, tCase.req)
			if err := iotest.TestReader(req, tCase.data); err != nil {
				t.Error(err)
			}
		})
	}
}

// countingServer starts a stub server counting accepted connections.
func countingServer(t *testing.T, closeConnection bool) (*httptest.Server, *atomic.Int32) {
	var accepted atomic.Int32
	srv := httptest.NewUnstartedServer(stubserver.Handler(closeConnection))
	srv.Config.ConnState = func(c net.Conn, s nethttp.ConnState) {
		if s == nethttp.StateNew {
			accepted.Add(1)
		}
	}
	srv.Start()
	t.Cleanup(srv.Close)
	return srv, &accepted
}

func newClient() *internal.Client {
	c := &internal.Client{}
	c.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer { return cd })
	return c
}

func TestClientGetAndPost(t *testing.T) {
	srv, _ := countingServer(t, false)
	c := newClient()

	req, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, stubserver.Greeting, string(resp.Body))

	req, err = http.Post(srv.URL+"/post-test", "payload")
	require.NoError(t, err)
	resp, err = c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestClientReusesConnection(t *testing.T) {
	srv, accepted := countingServer(t, false)
	c := newClient()
	for i := 0; i < 3; i++ {
		req, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		_, err = c.CtxDo(context.Background(), req)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, accepted.Load())
}

func TestClientClosesOnConnectionClose(t *testing.T) {
	srv, accepted := countingServer(t, true)
	c := newClient()
	for i := 0; i < 2; i++ {
		req, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		resp, err := c.CtxDo(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Close)
		assert.True(t, resp.Has("connection", "CLOSE"))
	}
	assert.EqualValues(t, 2, accepted.Load())
}

func TestClientMiddlewareOrder(t *testing.T) {
	srv, _ := countingServer(t, false)
	var order []string
	mark := func(name string) internal.Middleware {
		return func(next internal.Handler) internal.Handler {
			return func(ctx context.Context, req *http.PreparedRequest) (*http.Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}
	c := newClient()
	c.Use(mark("first"), mark("second"))
	c.Use(mark("third"))

	req, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	_, err = c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestClientRequestID(t *testing.T) {
	var got []string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		got = append(got, r.Header.Get("X-Request-Id"))
		w.WriteHeader(204)
	}))
	defer srv.Close()

	c := newClient()
	c.Use(internal.RequestID(""))

	req, err := http.Get(srv.URL)
	require.NoError(t, err)
	_, err = c.Do(req)
	require.NoError(t, err)

	req, err = http.Get(srv.URL)
	require.NoError(t, err)
	_, err = c.Do(req.WithHeader("x-request-id", "given"))
	require.NoError(t, err)

	require.Len(t, got, 2)
	_, err = uuid.Parse(got[0])
	assert.NoError(t, err)
	assert.Equal(t, "given", got[1])
}

func TestClientLogging(t *testing.T) {
	srv, _ := countingServer(t, false)
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	c := newClient()
	c.Use(internal.Logging())
	req, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	_, err = c.CtxDo(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"request done"`)
	assert.Contains(t, buf.String(), `"status":200`)

	buf.Reset()
	req, err = http.Get("http://127.0.0.1:1/")
	require.NoError(t, err)
	_, err = c.CtxDo(ctx, req)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"msg":"request failed"`)
}

func TestClientTLS(t *testing.T) {
	srv := httptest.NewTLSServer(stubserver.Handler(false))
	defer srv.Close()

	c := &internal.Client{}
	c.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer {
		cd.TLSConfig.RootCAs = x509.NewCertPool()
		cd.TLSConfig.RootCAs.AddCert(srv.Certificate())
		return cd
	})
	req, err := http.Get(srv.URL)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, stubserver.Greeting, string(resp.Body))
}

func TestClientCanceled(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := newClient()
	c.Use(func(next internal.Handler) internal.Handler {
		return func(ctx context.Context, req *http.PreparedRequest) (*http.Response, error) {
			go cancel()
			return next(ctx, req)
		}
	})
	req, err := http.Get(srv.URL)
	require.NoError(t, err)
	_, err = c.CtxDo(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}
