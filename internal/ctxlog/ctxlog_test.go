package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", "k", "v")
	assert.Contains(t, out.String(), "msg=hello k=v")
}
