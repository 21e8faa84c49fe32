package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/observability"
)

// DefaultMaxBytes caps a single fetched payload.
const DefaultMaxBytes = 8 << 20

// DefaultClient is used when Fetch is given a nil client.
var DefaultClient = &http.Client{Timeout: 15 * time.Second}

// StatusError is a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Fetch GETs url and returns at most maxBytes of body plus its media type.
// Transport errors, 5xx and 429 responses come back as [RetryableError].
// The media type is taken from Content-Type, or sniffed from the body when
// the header is missing or generic.
func Fetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, string, error) {
	if client == nil {
		client = DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if errors.Is(err, ErrNonPublicAddress) {
			return nil, "", err
		}
		return nil, "", &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		se := &StatusError{URL: url, Code: resp.StatusCode}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, "", &RetryableError{Err: se}
		}
		return nil, "", se
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", &RetryableError{Err: err}
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("GET %s: body exceeds %d bytes", url, maxBytes)
	}
	return data, MediaType(resp.Header.Get("Content-Type"), data), nil
}

// MediaType returns the media type from a Content-Type header, falling back
// to content sniffing for empty or octet-stream headers.
func MediaType(header string, data []byte) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt := http.DetectContentType(data)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	if mt == "text/xml" && strings.Contains(string(data[:min(len(data), 512)]), "<svg") {
		return "image/svg+xml"
	}
	return mt
}
