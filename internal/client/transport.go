// ABOUTME: HTTP round tripper that tags requests with an ID and logs them
// ABOUTME: Logs method, path, status and duration at debug level

package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request ID so client and backend logs line up.
const RequestIDHeader = "X-Request-ID"

type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	attrs := []any{
		"request_id", id,
		"method", req.Method,
		"path", req.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		t.logger.Debug("request failed", append(attrs, "error", err)...)
		return nil, err
	}
	t.logger.Debug("request completed", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
