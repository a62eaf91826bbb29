package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/five82/fauna/internal/logging"
)

// Option customizes a Client.
type Option func(*Client)

// WithLogger logs every request and response at trace level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			return
		}
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = &loggingTransport{wrapped: base, logger: logger}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

type loggingTransport struct {
	wrapped http.RoundTripper
	logger  *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !t.logger.Enabled(ctx, logging.LevelTrace) {
		return t.wrapped.RoundTrip(req)
	}

	start := time.Now()
	t.logger.LogAttrs(ctx, logging.LevelTrace, "HTTP request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	resp, err := t.wrapped.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		t.logger.LogAttrs(ctx, logging.LevelTrace, "HTTP request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t.logger.LogAttrs(ctx, logging.LevelTrace, "HTTP response",
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.Int64("content_length", resp.ContentLength),
	)
	return resp, nil
}
