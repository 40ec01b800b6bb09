package internal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frankli0324/async-http-client/internal/ctxlog"
	"github.com/frankli0324/async-http-client/internal/http"
)

const DefaultRequestIDHeader = "X-Request-Id"

// RequestID stamps each request with a random UUID under header, unless
// the request already carries one. An empty header means
// [DefaultRequestIDHeader].
func RequestID(header string) Middleware {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, req *http.PreparedRequest) (*http.Response, error) {
			for k := range req.Header {
				if strings.EqualFold(k, header) {
					return next(ctx, req)
				}
			}
			req.Header[header] = []string{uuid.NewString()}
			return next(ctx, req)
		}
	}
}

// Logging logs every round trip with the logger carried by ctx, see
// [ctxlog.FromContext].
func Logging() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *http.PreparedRequest) (*http.Response, error) {
			logger := ctxlog.FromContext(ctx).With("method", req.Method.String(), "url", req.U.Redacted())
			start := time.Now()
			resp, err := next(ctx, req)
			latency := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "request failed", "latency", latency, "err", err)
				return nil, err
			}
			logger.InfoContext(ctx, "request done",
				"status", resp.StatusCode,
				"bytes", len(resp.Body),
				"latency", latency,
			)
			return resp, nil
		}
	}
}
