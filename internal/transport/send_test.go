package transport_test

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/internal/stubserver"
	"github.com/frankli0324/async-http-client/internal/transport"
)

func dialStub(t *testing.T, closeConnection bool) (string, net.Conn) {
	t.Helper()
	srv := httptest.NewServer(stubserver.Handler(closeConnection))
	t.Cleanup(srv.Close)
	conn, err := net.Dial("tcp", srv.Listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return srv.URL, conn
}

func TestSendTwoFrames(t *testing.T) {
	base, conn := dialStub(t, true)
	ctx := context.Background()

	req, err := http.Post(base+"/post-test", []byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	res, err := transport.Send(ctx, conn, req.WithHeader("Content-Type", "text/plain"))
	require.NoError(t, err)
	assert.Equal(t, 204, res.StatusCode)
	assert.Empty(t, res.Body)
	assert.False(t, res.Close)

	// should receive a response and then close the connection
	req, err = http.Get(base + "/")
	require.NoError(t, err)
	res, err = transport.Send(ctx, conn, req)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, stubserver.Greeting, string(res.Body))
	assert.True(t, res.Has("Connection", "close"))
	assert.True(t, res.Close)

	_, err = transport.Send(ctx, conn, req)
	assert.Error(t, err, "server closed the connection")
}

func TestSendChannel(t *testing.T) {
	base, conn := dialStub(t, false)
	reqs := make(chan *http.Request, 1)

	go func() {
		defer close(reqs)
		for i := 0; i < 4; i++ {
			elements := make([]byte, i+1)
			for j := range elements {
				elements[j] = byte(j)
			}
			req, err := http.Post(base+"/post-test", elements)
			if err != nil {
				t.Error(err)
				return
			}
			reqs <- req.WithHeader("Content-Type", "text/plain")
			time.Sleep(10 * time.Millisecond)
		}
	}()

	n := 0
	for req := range reqs {
		res, err := transport.Send(context.Background(), conn, req)
		require.NoError(t, err)
		assert.Equal(t, 204, res.StatusCode)
		n++
	}
	assert.Equal(t, 4, n)
}

func TestSendChunkedBody(t *testing.T) {
	base, conn := dialStub(t, false)
	req, err := http.Post(base+"/post-test", io.MultiReader(strings.NewReader("stre"), strings.NewReader("amed")))
	require.NoError(t, err)

	res, err := transport.Send(context.Background(), conn, req)
	require.NoError(t, err)
	assert.Equal(t, 204, res.StatusCode)

	// the connection is still in sync afterwards
	req, err = http.Get(base + "/")
	require.NoError(t, err)
	res, err = transport.Send(context.Background(), conn, req)
	require.NoError(t, err)
	assert.Equal(t, stubserver.Greeting, string(res.Body))
}

func TestSendNoResponse(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		buf := make([]byte, 1024)
		server.Read(buf)
		server.Close()
	}()
	req, err := http.Get("http://example.com/")
	require.NoError(t, err)
	_, err = transport.Send(context.Background(), client, req)
	assert.ErrorIs(t, err, transport.ErrNoResponse)
}
