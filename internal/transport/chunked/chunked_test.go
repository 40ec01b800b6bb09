package chunked_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/async-http-client/internal/transport/chunked"
)

func TestWriterDecoderRoundTrip(t *testing.T) {
	var wire bytes.Buffer
	w := chunked.NewWriter(&wire)
	for _, p := range []string{"hello", "", ", ", "world!"} {
		_, err := w.Write([]byte(p))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	assert.Equal(t, "5\r\nhello\r\n2\r\n, \r\n6\r\nworld!\r\n0\r\n\r\n", wire.String())

	var body []byte
	done, err := chunked.NewDecoder().Decode(&wire, func(p []byte) { body = append(body, p...) })
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "hello, world!", string(body))
	assert.Zero(t, wire.Len())
}

func TestDecoderByteByByte(t *testing.T) {
	src := []byte("4;ext=1\r\nWiki\r\n5\r\npedia\r\nE\r\n in\r\n\r\nchunks.\r\n0\r\nX-Trailer: 1\r\n\r\nrest")
	d := chunked.NewDecoder()
	var buf bytes.Buffer
	var body []byte
	done := false
	for i := 0; i < len(src) && !done; i++ {
		buf.WriteByte(src[i])
		var err error
		done, err = d.Decode(&buf, func(p []byte) { body = append(body, p...) })
		require.NoError(t, err)
	}
	assert.True(t, done)
	assert.Equal(t, "Wikipedia in\r\n\r\nchunks.", string(body))
	assert.Equal(t, "", buf.String(), "nothing past the trailer is consumed")
}

func TestDecoderErrors(t *testing.T) {
	cases := map[string]string{
		"BadHex":      "zz\r\n",
		"Empty":       "\r\n",
		"TooLong":     "11111111111111111\r\n",
		"MissingCRLF": "3\r\nabcXY",
	}
	for name, in := range cases {
		in := in
		t.Run(name, func(t *testing.T) {
			_, err := chunked.NewDecoder().Decode(bytes.NewBufferString(in), func([]byte) {})
			assert.Error(t, err)
		})
	}
}
