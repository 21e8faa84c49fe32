// Package httputil provides the HTTP plumbing behind remote node images.
//
// # Overview
//
//   - [Fetch]: bounded GET that classifies transient failures
//   - [Retry]: automatic retry with exponential backoff
//   - [Cache]: file-based cache of fetched payloads
//   - [NewPublicClient]: client that only dials public addresses
//
// # Caching
//
// [Cache] stores entries in the filesystem (~/.cache/treecharts/http/)
// with a configurable TTL, so re-rendering a chart does not download the
// same avatar or logo again.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	images := cache.Namespace("img:")
//	var payload []byte
//	if ok, _ := images.Get(url, &payload); !ok {
//	    payload, _, err = httputil.Fetch(ctx, client, url, maxBytes)
//	    images.Set(url, payload)
//	}
//
// # Retry
//
// [Fetch] wraps network errors, 5xx and 429 responses in [RetryableError],
// which [Retry] attempts again with a doubling delay:
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    data, mime, err = httputil.Fetch(ctx, client, url, maxBytes)
//	    return err
//	})
package httputil
