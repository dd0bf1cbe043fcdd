package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskdash/internal/logger"
)

// RequestIDHeader carries a per-request id so server logs can be matched to ours.
const RequestIDHeader = "X-Request-ID"

// requestIDTransport stamps each request with a fresh id and logs the round trip.
type requestIDTransport struct {
	next http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := uuid.NewString()
	req = req.Clone(req.Context())
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		logger.Debug(req.Context(), "request failed",
			"id", id, "method", req.Method, "path", req.URL.Path, "err", err)
		return nil, err
	}
	logger.Debug(req.Context(), "request",
		"id", id, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))
	return resp, nil
}
