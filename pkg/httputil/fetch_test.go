package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/typed":
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			_, _ = w.Write([]byte("jpeg"))
		case "/sniff":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(pngHeader)
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		case "/busy":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name      string
		path      string
		max       int64
		wantMIME  string
		wantErr   bool
		retryable bool
	}{
		{"content type header", "/typed", 0, "image/jpeg", false, false},
		{"sniffed", "/sniff", 0, "image/png", false, false},
		{"too large", "/big", 10, "", true, false},
		{"server error", "/busy", 0, "", true, true},
		{"rate limited", "/limited", 0, "", true, true},
		{"not found", "/missing", 0, "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mt, err := Fetch(context.Background(), srv.Client(), srv.URL+tt.path, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, !tt.retryable, tt.retryable)
			}
			if mt != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mt, tt.wantMIME)
			}
		})
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, _, err := Fetch(context.Background(), nil, srv.URL, 0)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("err = %v, want StatusError 404", err)
	}
}

func TestRetry_RecoversFromTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	var data []byte
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		var err error
		data, _, err = Fetch(context.Background(), srv.Client(), srv.URL, 0)
		return err
	})
	if err != nil {
		t.Fatalf("Retry() = %v", err)
	}
	if calls.Load() != 3 || len(data) == 0 {
		t.Errorf("calls = %d, len(data) = %d", calls.Load(), len(data))
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad url")
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		header string
		data   string
		want   string
	}{
		{"image/png", "", "image/png"},
		{"", "<?xml version=\"1.0\"?><svg xmlns=\"http://www.w3.org/2000/svg\"/>", "image/svg+xml"},
		{"", "GIF89a", "image/gif"},
		{"application/octet-stream", "\x89PNG\r\n\x1a\n", "image/png"},
	}
	for _, tt := range tests {
		if got := MediaType(tt.header, []byte(tt.data)); got != tt.want {
			t.Errorf("MediaType(%q, %q) = %q, want %q", tt.header, tt.data, got, tt.want)
		}
	}
}
