// Package httputil fetches remote data snapshots.
//
// [Client] wraps an [http.Client] with the retry policy from
// [cache.RetryPolicy] and an optional byte cache. Transient failures
// (connection errors, 5xx responses) are retried with exponential backoff;
// a 404 maps to [cache.ErrNotFound] and is returned immediately.
//
//	c := httputil.NewClient(httputil.WithCache(fc, time.Hour))
//	data, err := c.Fetch(ctx, "https://example.com/snapshot.json")
//
// Every request is reported through [observability.HTTP].
package httputil
