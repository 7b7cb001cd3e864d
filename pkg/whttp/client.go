package whttp

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// RedactedParams are query params which carry credentials.
var RedactedParams = []string{"key", "access_key", "appid"}

type LoggingRoundTripper struct {
	Proxied http.RoundTripper
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	slog.InfoContext(ctx, "outbound request", "method", req.Method, "url", RedactURL(req.URL))

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(ctx, "outbound request failed", "error", err.Error(), "url", RedactURL(req.URL))
		return res, err
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		slog.ErrorContext(ctx, "unable to read response body", "error", err.Error(), "status", res.Status, "url", RedactURL(req.URL))
		return nil, fmt.Errorf("read response body: %w", err)
	}

	slog.InfoContext(ctx, "received response", "status", res.Status, "body", string(body))

	res.Body = io.NopCloser(bytes.NewReader(body))

	return res, nil
}

// RedactURL returns the URL as a string with credentials masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	var redacted bool
	for _, p := range RedactedParams {
		if q.Has(p) {
			q.Set(p, "*****")
			redacted = true
		}
	}

	if !redacted {
		return u.String()
	}

	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

func NewLoggingClient() *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   10 * time.Second,
	}
}
