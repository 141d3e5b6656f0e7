package loader

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// LoggedTransport adds slog logging to HTTP requests.
//
// Requests are logged with DEBUG level, authorization headers redacted.
// Responses with status code below 400 are logged with INFO level,
// responses with status code of 400 or higher with WARNING level.
// Bodies are never logged since they carry binary image data.
type LoggedTransport struct{}

func (t LoggedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if slog.Default().Enabled(req.Context(), slog.LevelDebug) {
		h := req.Header.Clone()
		if h.Get("Authorization") != "" {
			h.Set("Authorization", "REDACTED")
		}
		slog.Debug("HTTP request", "method", req.Method, "url", req.URL, "header", h)
	}
	start := time.Now()
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		slog.Warn("HTTP request failed", "method", req.Method, "url", req.URL, "error", err)
		return resp, err
	}
	level := slog.LevelInfo
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	slog.Log(
		context.Background(),
		level,
		"HTTP response",
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"size", resp.ContentLength,
		"elapsed", time.Since(start),
	)
	return resp, nil
}
